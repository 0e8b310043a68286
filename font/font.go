/*
Package font holds the packed glyph tables the Papyrix renderer draws
text with.

A family groups up to four style tables (regular, bold, italic, bold
italic). Each style table carries per-glyph metrics plus one shared,
read-only bitmap blob; glyphs never own pixel data, they only describe a
sub-region of the blob. Bitmap data is either 1 bit per pixel (on/off)
or 2 bits per pixel (four gray levels, stored 0=white through 3=black).
*/
package font

// Style selects one of the glyph tables within a family.
type Style int

// Font styles.
const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic

	numStyles
)

// Glyph describes one character: its metrics and where its pixels live
// within the style's shared bitmap blob.
type Glyph struct {
	Width    uint8
	Height   uint8
	Left     int8  // bearing from the pen position
	Top      int8  // bearing above the baseline
	AdvanceX uint8  // pen advance after drawing
	Offset   uint32 // byte offset into Metrics.Bitmap
}

// Metrics is one style's glyph table. Glyphs cover the contiguous
// codepoint range [First, First+len(Glyphs)).
type Metrics struct {
	First      rune
	LineHeight int // vertical pen advance between lines
	TwoBit     bool
	Glyphs     []Glyph
	Bitmap     []byte
}

// Glyph returns the glyph for cp, or nil when cp is outside the table.
func (m *Metrics) Glyph(cp rune) *Glyph {
	if m == nil || cp < m.First || cp >= m.First+rune(len(m.Glyphs)) {
		return nil
	}
	return &m.Glyphs[cp-m.First]
}

// Family is a set of style tables sharing one typeface. Styles without
// their own table fall back to the regular table.
type Family struct {
	styles [numStyles]*Metrics
}

// NewFamily returns a family with the given regular style table.
func NewFamily(regular *Metrics) *Family {
	f := &Family{}
	f.styles[Regular] = regular
	return f
}

// SetStyle installs a table for the given style.
func (f *Family) SetStyle(s Style, m *Metrics) {
	if s >= Regular && s < numStyles {
		f.styles[s] = m
	}
}

// Data returns the table for the given style, falling back to regular.
func (f *Family) Data(s Style) *Metrics {
	if s >= Regular && s < numStyles && f.styles[s] != nil {
		return f.styles[s]
	}
	return f.styles[Regular]
}

// Glyph looks up the glyph for cp in the given style, or nil if the
// style's table does not cover cp.
func (f *Family) Glyph(cp rune, s Style) *Glyph {
	return f.Data(s).Glyph(cp)
}

// glyphOrFallback resolves cp, substituting the '?' glyph when missing.
// Returns nil only when neither exists.
func (f *Family) glyphOrFallback(cp rune, s Style) *Glyph {
	if g := f.Glyph(cp, s); g != nil {
		return g
	}
	return f.Glyph('?', s)
}

// HasPrintableChars reports whether at least one rune of text resolves
// to a glyph (directly, not through the fallback) in the given style.
func (f *Family) HasPrintableChars(text string, s Style) bool {
	for _, cp := range text {
		if f.Glyph(cp, s) != nil {
			return true
		}
	}
	return false
}

// TextWidth measures the pen advance of text in the given style.
// Missing glyphs fall back to '?'; runes with no glyph at all add
// nothing.
func (f *Family) TextWidth(text string, s Style) int {
	w := 0
	for _, cp := range text {
		if g := f.glyphOrFallback(cp, s); g != nil {
			w += int(g.AdvanceX)
		}
	}
	return w
}

// GlyphAdvance returns the pen advance cp would add, resolving the
// fallback glyph the same way drawing does.
func (f *Family) GlyphAdvance(cp rune, s Style) int {
	if g := f.glyphOrFallback(cp, s); g != nil {
		return int(g.AdvanceX)
	}
	return 0
}
