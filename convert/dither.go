package convert

// Dither selects the quantization strategy for indexed output.
type Dither int

const (
	// DitherNone quantizes into evenly spaced levels with no error
	// compensation.
	DitherNone Dither = iota
	// DitherAtkinson diffuses 6/8 of the quantization error, trading a
	// slight brightness bias for fewer worm artifacts.
	DitherAtkinson
	// DitherFloydSteinberg diffuses the full error with a serpentine
	// scan.
	DitherFloydSteinberg
	// DitherNoise thresholds against a per-pixel integer hash; no
	// spatial memory, so it survives downsampling without moire.
	DitherNoise
)

// quantizeSimple maps a gray value to one of levels evenly spaced
// values.
func quantizeSimple(gray, levels int) uint8 {
	if levels <= 1 {
		return 0
	}
	gray = clamp255(gray)
	level := (gray * levels) >> 8
	if level >= levels {
		level = levels - 1
	}
	return uint8(level)
}

// quantizeWithValue also returns the reconstructed 0..255 value of the
// chosen level, which the error diffusers need to compute the residual.
func quantizeWithValue(gray, levels int) (uint8, int) {
	if levels <= 1 {
		return 0, 0
	}
	gray = clamp255(gray)
	level := (gray * levels) >> 8
	if level >= levels {
		level = levels - 1
	}
	return uint8(level), level * 255 / (levels - 1)
}

// quantizeNoise promotes a pixel to the next level when its fractional
// remainder plus a hashed per-pixel threshold overflows 256.
func quantizeNoise(gray, x, y, levels int) uint8 {
	if levels <= 1 {
		return 0
	}
	hash := uint32(x)*374761393 + uint32(y)*668265263
	hash = (hash ^ (hash >> 13)) * 1274126177
	threshold := int(hash >> 24)

	scaled := gray * levels
	level := scaled >> 8
	if level >= levels {
		level = levels - 1
	}
	if remainder := scaled & 0xff; level < levels-1 && remainder+threshold >= 256 {
		level++
	}
	return uint8(level)
}

// atkinson diffuses 1/8 of each pixel's quantization error to six
// neighbors across three rows; the remaining 2/8 is discarded on
// purpose. Error buffers carry two columns of slack on each side so
// edge pixels need no bounds checks.
type atkinson struct {
	width  int
	levels int
	rows   [3][]int16
}

func newAtkinson(width, levels int) *atkinson {
	d := &atkinson{width: width, levels: levels}
	for i := range d.rows {
		d.rows[i] = make([]int16, width+4)
	}
	return d
}

func (d *atkinson) process(gray, x int) uint8 {
	adjusted := clamp255(gray + int(d.rows[0][x+2]))
	level, value := quantizeWithValue(adjusted, d.levels)

	e := int16((adjusted - value) >> 3)
	d.rows[0][x+3] += e
	d.rows[0][x+4] += e
	d.rows[1][x+1] += e
	d.rows[1][x+2] += e
	d.rows[1][x+3] += e
	d.rows[2][x+2] += e

	return level
}

func (d *atkinson) nextRow() {
	d.rows[0], d.rows[1], d.rows[2] = d.rows[1], d.rows[2], d.rows[0]
	for i := range d.rows[2] {
		d.rows[2][i] = 0
	}
}

// floydSteinberg diffuses the full quantization error 7/16 forward and
// 3/16+5/16+1/16 to the next row, mirrored on reverse rows. The scan
// direction alternates each row.
type floydSteinberg struct {
	width    int
	levels   int
	rowCount int
	cur      []int16
	next     []int16
}

func newFloydSteinberg(width, levels int) *floydSteinberg {
	return &floydSteinberg{
		width:  width,
		levels: levels,
		cur:    make([]int16, width+2),
		next:   make([]int16, width+2),
	}
}

func (d *floydSteinberg) reverse() bool { return d.rowCount&1 != 0 }

func (d *floydSteinberg) process(gray, x int) uint8 {
	adjusted := clamp255(gray + int(d.cur[x+1]))
	level, value := quantizeWithValue(adjusted, d.levels)

	e := adjusted - value
	if !d.reverse() {
		d.cur[x+2] += int16((e * 7) >> 4)
		d.next[x] += int16((e * 3) >> 4)
		d.next[x+1] += int16((e * 5) >> 4)
		d.next[x+2] += int16(e >> 4)
	} else {
		d.cur[x] += int16((e * 7) >> 4)
		d.next[x+2] += int16((e * 3) >> 4)
		d.next[x+1] += int16((e * 5) >> 4)
		d.next[x] += int16(e >> 4)
	}

	return level
}

func (d *floydSteinberg) nextRow() {
	d.cur, d.next = d.next, d.cur
	for i := range d.next {
		d.next[i] = 0
	}
	d.rowCount++
}
