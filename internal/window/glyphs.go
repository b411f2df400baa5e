package window

import "fmt"

// GlyphSet holds the box-drawing characters used to render frames:
// corners, edges, and the tee junctions used where a title divider
// meets the frame.
type GlyphSet struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
	TeeLeft     rune
	TeeRight    rune
	TeeTop      rune
	TeeBottom   rune
	Cross       rune
}

// LightGlyphs is the default single-line box-drawing set.
func LightGlyphs() GlyphSet {
	return GlyphSet{
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
		Horizontal:  '─',
		Vertical:    '│',
		TeeLeft:     '├',
		TeeRight:    '┤',
		TeeTop:      '┬',
		TeeBottom:   '┴',
		Cross:       '┼',
	}
}

// RoundedGlyphs is the light set with rounded corners.
func RoundedGlyphs() GlyphSet {
	g := LightGlyphs()
	g.TopLeft = '╭'
	g.TopRight = '╮'
	g.BottomLeft = '╰'
	g.BottomRight = '╯'
	return g
}

// DoubleGlyphs uses double-line box drawing.
func DoubleGlyphs() GlyphSet {
	return GlyphSet{
		TopLeft:     '╔',
		TopRight:    '╗',
		BottomLeft:  '╚',
		BottomRight: '╝',
		Horizontal:  '═',
		Vertical:    '║',
		TeeLeft:     '╠',
		TeeRight:    '╣',
		TeeTop:      '╦',
		TeeBottom:   '╩',
		Cross:       '╬',
	}
}

// ASCIIGlyphs is a 7-bit fallback for terminals without box-drawing
// glyphs.
func ASCIIGlyphs() GlyphSet {
	return GlyphSet{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
		TeeLeft:     '+',
		TeeRight:    '+',
		TeeTop:      '+',
		TeeBottom:   '+',
		Cross:       '+',
	}
}

// GlyphsForTheme maps a theme name to its glyph set. The empty name
// selects the light set.
func GlyphsForTheme(name string) (GlyphSet, error) {
	switch name {
	case "", "light":
		return LightGlyphs(), nil
	case "rounded":
		return RoundedGlyphs(), nil
	case "double":
		return DoubleGlyphs(), nil
	case "ascii":
		return ASCIIGlyphs(), nil
	default:
		return GlyphSet{}, fmt.Errorf("window: unknown glyph theme %q", name)
	}
}
