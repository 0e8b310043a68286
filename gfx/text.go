package gfx

import (
	"bytes"

	"github.com/32bitkid/bitreader"

	"github.com/papyrix/papyrix/font"
)

// TextWidth measures text in the given font and style. An unknown font
// id measures zero.
func (r *Renderer) TextWidth(fontID int, text string, style font.Style) int {
	fam := r.family(fontID)
	if fam == nil {
		return 0
	}
	return fam.TextWidth(text, style)
}

// LineHeight returns the vertical pen advance of the font.
func (r *Renderer) LineHeight(fontID int) int {
	fam := r.family(fontID)
	if fam == nil {
		return 0
	}
	return fam.Data(font.Regular).LineHeight
}

// SpaceWidth returns the advance of the space glyph in the font.
func (r *Renderer) SpaceWidth(fontID int) int {
	fam := r.family(fontID)
	if fam == nil {
		return 0
	}
	return fam.GlyphAdvance(' ', font.Regular)
}

// DrawText draws text with its top-left corner at (x, y). Runes without
// a glyph fall back to '?' and are skipped when even that is missing; a
// string with no printable characters draws nothing.
func (r *Renderer) DrawText(fontID, x, y int, text string, black bool, style font.Style) {
	if text == "" {
		return
	}
	fam := r.family(fontID)
	if fam == nil {
		return
	}
	if !fam.HasPrintableChars(text, style) {
		return
	}

	yPos := y + r.LineHeight(fontID)
	xPos := x
	for _, cp := range text {
		xPos = r.renderChar(fam, cp, xPos, yPos, black, style)
	}
}

// DrawCenteredText draws text horizontally centered on the screen.
func (r *Renderer) DrawCenteredText(fontID, y int, text string, black bool, style font.Style) {
	x := (r.ScreenWidth() - r.TextWidth(fontID, text, style)) / 2
	r.DrawText(fontID, x, y, text, black, style)
}

// DrawTextInBox draws text wrapped into the box at (x, y) of size
// (w, h). Wrapping is per glyph, not per word; once the next line would
// overflow the box height the last line reserves room for an ellipsis
// and truncates mid-line with three spaced dots. With h <= 0 the text
// wraps without a height limit.
func (r *Renderer) DrawTextInBox(fontID, x, y, w, h int, text string, centered, black bool, style font.Style) {
	if text == "" {
		return
	}
	fam := r.family(fontID)
	if fam == nil {
		return
	}
	if !fam.HasPrintableChars(text, style) {
		return
	}

	lineHeight := r.LineHeight(fontID)
	spaceWidth := r.SpaceWidth(fontID)
	xPos := x
	yPos := y + lineHeight
	if centered {
		// Center only when the text fits on a single line.
		if tw := fam.TextWidth(text, style); tw < w {
			xPos = x + (w-tw)/2
		}
	}

	ellipsisWidth := 0
	for _, cp := range text {
		charWidth := fam.GlyphAdvance(cp, style)
		if xPos+charWidth+ellipsisWidth > x+w {
			if ellipsisWidth > 0 {
				dotX := xPos
				dotX = r.renderChar(fam, '.', dotX, yPos, black, style)
				dotX += spaceWidth / 3
				dotX = r.renderChar(fam, '.', dotX, yPos, black, style)
				dotX += spaceWidth / 3
				r.renderChar(fam, '.', dotX, yPos, black, style)
				return
			}
			xPos = x
			yPos += lineHeight
			if h > 0 && yPos-y > h {
				// Overflowing the box height.
				return
			}
			if h > 0 && yPos+lineHeight-y > h {
				// Last line, reserve room for the ellipsis.
				ellipsisWidth = spaceWidth * 4
			}
		}
		xPos = r.renderChar(fam, cp, xPos, yPos, black, style)
	}
}

// TruncateText shortens text to fit maxWidth, substituting a trailing
// ellipsis once the width is exceeded. Text that already fits is
// returned unchanged.
func (r *Renderer) TruncateText(fontID int, text string, maxWidth int, style font.Style) string {
	fam := r.family(fontID)
	if fam == nil {
		return ""
	}
	if fam.TextWidth(text, style) <= maxWidth {
		return text
	}

	reserve := r.SpaceWidth(fontID) * 4
	w := 0
	for i, cp := range text {
		adv := fam.GlyphAdvance(cp, style)
		if w+adv+reserve > maxWidth {
			return text[:i] + "..."
		}
		w += adv
	}
	return text
}

// renderChar rasterizes one glyph with its baseline at y and returns
// the advanced pen position. Missing glyphs fall back to '?', then to
// a logged no-op.
func (r *Renderer) renderChar(fam *font.Family, cp rune, x, y int, black bool, style font.Style) int {
	g := fam.Glyph(cp, style)
	if g == nil {
		g = fam.Glyph('?', style)
	}
	if g == nil {
		Logger().Debug("gfx: no glyph for codepoint", "codepoint", int(cp))
		return x
	}

	m := fam.Data(style)
	if int(g.Offset) >= len(m.Bitmap) && g.Width > 0 && g.Height > 0 {
		Logger().Debug("gfx: glyph bitmap out of range", "codepoint", int(cp))
		return x + int(g.AdvanceX)
	}

	// Glyph pixels are one MSB-first packed stream, rows concatenated.
	br := bitreader.NewReader(bytes.NewReader(m.Bitmap[g.Offset:]))
	width := int(g.Width)
	height := int(g.Height)

	for gy := 0; gy < height; gy++ {
		screenY := y - int(g.Top) + gy
		for gx := 0; gx < width; gx++ {
			screenX := x + int(g.Left) + gx

			if m.TwoBit {
				v, err := br.Read8(2)
				if err != nil {
					return x + int(g.AdvanceX)
				}
				// Storage runs 0=white..3=black; flip it so levels
				// match how images and the screen think about gray.
				level := 3 - v
				if paints(level, r.plane) {
					if r.plane == PlaneBW {
						r.DrawPixel(screenX, screenY, black)
					} else {
						// Gray planes flag pixels in reverse: set
						// means update.
						r.DrawPixel(screenX, screenY, false)
					}
				}
			} else {
				on, err := br.Read1()
				if err != nil {
					return x + int(g.AdvanceX)
				}
				if on {
					r.DrawPixel(screenX, screenY, black)
				}
			}
		}
	}

	return x + int(g.AdvanceX)
}

// Button hint bar geometry, shared by every activity screen.
const (
	buttonWidth      = 106
	buttonHeight     = 40
	buttonBottomGap  = 40
	buttonTextOffset = 5
)

var buttonPositions = [4]int{25, 130, 245, 350}

// DrawButtonHints draws up to four labeled button outlines along the
// bottom edge. Empty labels are skipped.
func (r *Renderer) DrawButtonHints(fontID int, labels ...string) {
	pageHeight := r.ScreenHeight()
	for i, label := range labels {
		if i >= len(buttonPositions) || label == "" {
			continue
		}
		x := buttonPositions[i]
		r.DrawRect(x, pageHeight-buttonBottomGap, buttonWidth, buttonHeight, true)
		textWidth := r.TextWidth(fontID, label, font.Regular)
		textX := x + (buttonWidth-1-textWidth)/2
		r.DrawText(fontID, textX, pageHeight-buttonBottomGap+buttonTextOffset, label, true, font.Regular)
	}
}
