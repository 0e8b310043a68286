package convert

// toneMap adjusts a gray value before quantization: contrast around the
// midpoint, an additive brightness offset, then an integer gamma
// approximation that brightens midtones while preserving highlights.
type toneMap struct {
	contrast   int
	brightness int
	gamma      bool
}

func (t toneMap) apply(gray int) int {
	if t.contrast > 0 {
		gray = (gray-128)*t.contrast/100 + 128
		gray = clamp255(gray)
	}

	gray = clamp255(gray + t.brightness)

	if t.gamma && gray > 0 {
		// out = sqrt(in * 255), two Newton-Raphson iterations seeded
		// at the input value.
		product := gray * 255
		x := gray
		x = (x + product/x) >> 1
		x = (x + product/x) >> 1
		if x > 255 {
			x = 255
		}
		gray = x
	}
	return gray
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
