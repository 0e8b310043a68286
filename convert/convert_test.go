package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papyrix/papyrix/bmp"
)

// fakeDecoder serves a grayscale pixel grid as 8x8 MCUs.
type fakeDecoder struct {
	info   Info
	pixels [][]byte
	next   int
	failAt int
}

func newFakeDecoder(pixels [][]byte) *fakeDecoder {
	h, w := len(pixels), len(pixels[0])
	return &fakeDecoder{
		info: Info{
			Width:      w,
			Height:     h,
			Components: 1,
			MCUWidth:   8,
			MCUHeight:  8,
			MCUsPerRow: (w + 7) / 8,
			MCUsPerCol: (h + 7) / 8,
		},
		pixels: pixels,
		failAt: -1,
	}
}

func (d *fakeDecoder) Info() Info { return d.info }

func (d *fakeDecoder) DecodeMCU(m *MCU) error {
	if d.next == d.failAt {
		return errors.New("corrupt block")
	}
	mcuX := d.next % d.info.MCUsPerRow
	mcuY := d.next / d.info.MCUsPerRow
	d.next++

	m.R = growBuf(m.R, 64)
	m.G = growBuf(m.G, 64)
	m.B = growBuf(m.B, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sx, sy := mcuX*8+x, mcuY*8+y
			var v byte
			if sy < d.info.Height && sx < d.info.Width {
				v = d.pixels[sy][sx]
			}
			m.R[y*8+x] = v
		}
	}
	return nil
}

func useDecoder(d MCUDecoder) func(io.Reader) (MCUDecoder, error) {
	return func(io.Reader) (MCUDecoder, error) { return d, nil }
}

func solidPixels(w, h int, v byte) [][]byte {
	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = bytes.Repeat([]byte{v}, w)
	}
	return rows
}

// rawOptions disables tone mapping and dithering so pixel values pass
// through unchanged.
func rawOptions(bits int) Options {
	return Options{BitsPerPixel: bits, Dither: DitherNone}
}

func decodeIndices(t *testing.T, b []byte) *image.Paletted {
	t.Helper()
	m, err := bmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	return pm
}

func TestToBMPRawPassthrough(t *testing.T) {
	pixels := make([][]byte, 8)
	for y := range pixels {
		pixels[y] = make([]byte, 8)
		for x := range pixels[y] {
			pixels[y][x] = byte(y*8 + x)
		}
	}

	opts := rawOptions(8)
	opts.NewDecoder = useDecoder(newFakeDecoder(pixels))

	out := new(bytes.Buffer)
	require.NoError(t, ToBMP(strings.NewReader(""), out, opts))

	pm := decodeIndices(t, out.Bytes())
	require.Equal(t, image.Rect(0, 0, 8, 8), pm.Bounds())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			require.Equal(t, uint8(y*8+x), pm.ColorIndexAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestToBMPIndexedOutput(t *testing.T) {
	opts := rawOptions(2)
	opts.NewDecoder = useDecoder(newFakeDecoder(solidPixels(4, 4, 255)))

	out := new(bytes.Buffer)
	require.NoError(t, ToBMP(strings.NewReader(""), out, opts))

	pm := decodeIndices(t, out.Bytes())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, uint8(3), pm.ColorIndexAt(x, y))
		}
	}
}

func TestToBMPScalingUniform(t *testing.T) {
	opts := rawOptions(8)
	opts.MaxWidth, opts.MaxHeight = 4, 4
	opts.NewDecoder = useDecoder(newFakeDecoder(solidPixels(8, 8, 100)))

	out := new(bytes.Buffer)
	require.NoError(t, ToBMP(strings.NewReader(""), out, opts))

	pm := decodeIndices(t, out.Bytes())
	require.Equal(t, image.Rect(0, 0, 4, 4), pm.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, uint8(100), pm.ColorIndexAt(x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestToBMPScalingPreservesAspect(t *testing.T) {
	opts := rawOptions(8)
	opts.MaxWidth, opts.MaxHeight = 4, 8
	opts.NewDecoder = useDecoder(newFakeDecoder(solidPixels(16, 8, 100)))

	out := new(bytes.Buffer)
	require.NoError(t, ToBMP(strings.NewReader(""), out, opts))

	// 16x8 fit into 4x8 scales by 1/4 on both axes.
	pm := decodeIndices(t, out.Bytes())
	assert.Equal(t, image.Rect(0, 0, 4, 2), pm.Bounds())
}

func TestToBMPAtkinsonExtremes(t *testing.T) {
	opts := rawOptions(2)
	opts.Dither = DitherAtkinson
	opts.NewDecoder = useDecoder(newFakeDecoder(solidPixels(8, 8, 255)))

	out := new(bytes.Buffer)
	require.NoError(t, ToBMP(strings.NewReader(""), out, opts))

	// Pure white carries no quantization error, so dithering leaves it
	// untouched.
	pm := decodeIndices(t, out.Bytes())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			require.Equal(t, uint8(3), pm.ColorIndexAt(x, y))
		}
	}
}

func TestToBMPRejectsBadDepth(t *testing.T) {
	out := new(bytes.Buffer)
	opts := rawOptions(3)
	opts.NewDecoder = useDecoder(newFakeDecoder(solidPixels(4, 4, 0)))

	err := ToBMP(strings.NewReader(""), out, opts)
	assert.Equal(t, errDepth, err)
	assert.Zero(t, out.Len())
}

func TestToBMPRejectsOversizedImage(t *testing.T) {
	d := newFakeDecoder(solidPixels(4, 4, 0))
	d.info.Width = maxImageWidth + 1

	out := new(bytes.Buffer)
	opts := rawOptions(2)
	opts.NewDecoder = useDecoder(d)

	err := ToBMP(strings.NewReader(""), out, opts)
	assert.Equal(t, errTooLarge, err)
	assert.Zero(t, out.Len())
}

func TestToBMPRejectsOversizedMCURow(t *testing.T) {
	d := newFakeDecoder(solidPixels(4, 4, 0))
	d.info.Width = 2048
	d.info.MCUHeight = 33

	out := new(bytes.Buffer)
	opts := rawOptions(2)
	opts.NewDecoder = useDecoder(d)

	err := ToBMP(strings.NewReader(""), out, opts)
	assert.Equal(t, errMCURow, err)
	// Config errors never produce output.
	assert.Zero(t, out.Len())
}

func TestToBMPMidStreamFailure(t *testing.T) {
	d := newFakeDecoder(solidPixels(16, 8, 0))
	d.failAt = 1

	out := new(bytes.Buffer)
	opts := rawOptions(2)
	opts.NewDecoder = useDecoder(d)

	assert.Error(t, ToBMP(strings.NewReader(""), out, opts))
}

func TestByteSourceReadAhead(t *testing.T) {
	s := newByteSource(strings.NewReader("hello"))

	buf := make([]byte, 4)
	n, err := s.Next(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "hell", string(buf[:n]))

	n, err = s.Next(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "o", string(buf[:n]))

	// End of data reads as zero bytes, not an error, repeatedly.
	for i := 0; i < 3; i++ {
		n, err = s.Next(buf)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestByteSourceAsReader(t *testing.T) {
	s := newByteSource(strings.NewReader("abc"))

	b, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestFrameDecoderGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 10; x++ {
			src.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	b := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(b, src, nil))

	d, err := newFrameDecoder(b)
	require.NoError(t, err)

	info := d.Info()
	assert.Equal(t, 10, info.Width)
	assert.Equal(t, 9, info.Height)
	assert.Equal(t, 1, info.Components)
	assert.Equal(t, 2, info.MCUsPerRow)
	assert.Equal(t, 2, info.MCUsPerCol)

	var m MCU
	require.NoError(t, d.DecodeMCU(&m))
	assert.InDelta(t, 200, m.R[0], 3)

	// Second unit covers columns 8..15; columns past the frame edge are
	// zero-padded.
	require.NoError(t, d.DecodeMCU(&m))
	assert.InDelta(t, 200, m.R[0], 3)
	assert.Zero(t, m.R[2])

	require.NoError(t, d.DecodeMCU(&m))
	require.NoError(t, d.DecodeMCU(&m))
	assert.Equal(t, errNoMoreBlocks, d.DecodeMCU(&m))
}
