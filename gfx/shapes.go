package gfx

// bayer4x4 is the ordered dithering threshold matrix used by
// FillRectGrey. Indexed by screen coordinates so the pattern tiles
// seamlessly regardless of the fill origin.
var bayer4x4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// DrawArc rasterizes one quadrant of an annulus centered at (cx, cy).
// xDir and yDir (+1 or -1) pick the quadrant, maxRadius the outer edge
// and lineWidth the stroke, drawn inward. Radii are small UI
// decorations, so the brute-force distance test is fine.
func (r *Renderer) DrawArc(maxRadius, cx, cy, xDir, yDir, lineWidth int, black bool) {
	stroke := lineWidth
	if stroke > maxRadius {
		stroke = maxRadius
	}
	innerRadius := maxRadius - stroke
	if innerRadius < 0 {
		innerRadius = 0
	}
	outerSq := maxRadius * maxRadius
	innerSq := innerRadius * innerRadius
	for dy := 0; dy <= maxRadius; dy++ {
		for dx := 0; dx <= maxRadius; dx++ {
			distSq := dx*dx + dy*dy
			if distSq > outerSq || distSq < innerSq {
				continue
			}
			r.DrawPixel(cx+xDir*dx, cy+yDir*dy, black)
		}
	}
}

// ArcUnset leaves pixels untouched in FillArc; ArcWhite and ArcBlack
// paint them.
const (
	ArcWhite = -1
	ArcUnset = 0
	ArcBlack = 1
)

// FillArc fills one quadrant around (cx, cy): pixels inside the disk
// of maxRadius get insideColor, pixels outside it (within the bounding
// square) get outsideColor. Either side can be left unchanged with
// ArcUnset.
func (r *Renderer) FillArc(maxRadius, cx, cy, xDir, yDir, insideColor, outsideColor int) {
	radiusSq := maxRadius * maxRadius
	for dy := 0; dy <= maxRadius; dy++ {
		for dx := 0; dx <= maxRadius; dx++ {
			distSq := dx*dx + dy*dy
			px := cx + xDir*dx
			py := cy + yDir*dy
			if distSq > radiusSq {
				if outsideColor != ArcUnset {
					r.DrawPixel(px, py, outsideColor == ArcBlack)
				}
			} else if insideColor != ArcUnset {
				r.DrawPixel(px, py, insideColor == ArcBlack)
			}
		}
	}
}

// DrawRoundedRect outlines a rectangle with rounded corners, the
// border confined to the rectangle interior. A corner radius that
// collapses to zero after clamping to half the smaller dimension
// degenerates to DrawThickRect.
func (r *Renderer) DrawRoundedRect(x, y, width, height, lineWidth, cornerRadius int, black bool) {
	if lineWidth <= 0 || width <= 0 || height <= 0 {
		return
	}

	maxRadius := cornerRadius
	if width/2 < maxRadius {
		maxRadius = width / 2
	}
	if height/2 < maxRadius {
		maxRadius = height / 2
	}
	if maxRadius <= 0 {
		r.DrawThickRect(x, y, width, height, lineWidth, black)
		return
	}

	stroke := lineWidth
	if stroke > maxRadius {
		stroke = maxRadius
	}
	right := x + width - 1
	bottom := y + height - 1

	if hw := width - 2*maxRadius; hw > 0 {
		r.FillRect(x+maxRadius, y, hw, stroke, black)
		r.FillRect(x+maxRadius, bottom-stroke+1, hw, stroke, black)
	}
	if vh := height - 2*maxRadius; vh > 0 {
		r.FillRect(x, y+maxRadius, stroke, vh, black)
		r.FillRect(right-stroke+1, y+maxRadius, stroke, vh, black)
	}

	r.DrawArc(maxRadius, x+maxRadius, y+maxRadius, -1, -1, lineWidth, black)
	r.DrawArc(maxRadius, right-maxRadius, y+maxRadius, 1, -1, lineWidth, black)
	r.DrawArc(maxRadius, right-maxRadius, bottom-maxRadius, 1, 1, lineWidth, black)
	r.DrawArc(maxRadius, x+maxRadius, bottom-maxRadius, -1, 1, lineWidth, black)
}

// FillRectGrey fills a rectangle with an ordered-dither gray pattern.
// greyLevel runs from 0 (white) to 15 (black).
func (r *Renderer) FillRectGrey(x, y, width, height, greyLevel int) {
	const matrixSize = 4
	const matrixLevels = matrixSize * matrixSize

	normalized := greyLevel * 255 / (matrixLevels - 1)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 255 {
		normalized = 255
	}
	threshold := normalized * (matrixLevels + 1) / 256

	for dy := 0; dy < height; dy++ {
		screenY := y + dy
		matrixY := screenY & (matrixSize - 1)
		for dx := 0; dx < width; dx++ {
			screenX := x + dx
			matrixX := screenX & (matrixSize - 1)
			r.DrawPixel(screenX, screenY, int(bayer4x4[matrixY][matrixX]) < threshold)
		}
	}
}
