// internal/mockups/parser.go
package mockups

import (
	"path/filepath"
	"strings"
)

// View is a garment side a mockup image depicts.
type View string

const (
	ViewFront View = "front"
	ViewBack  View = "back"
	ViewSide  View = "side"
)

// Extensions accepted for mockup images, in preference order.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// ParsedName is the outcome of parsing one mockup filename.
type ParsedName struct {
	StyleNumber string
	ColorName   string
	View        View
}

// Parser is one filename grammar. Parse receives the filename (with
// extension) and the style number whose folder it was found in, returning
// ok=false when the name doesn't match this grammar.
//
// Two grammars coexist because upstream-exported mockups and
// internally-produced ones were never named the same way. Keeping each as
// its own strategy makes a third convention additive.
type Parser interface {
	Parse(filename, styleNumber string) (ParsedName, bool)
}

// defaultParsers is the fixed strategy order: the in-house convention
// first, then the vendor-export convention.
var defaultParsers = []Parser{styleColorViewParser{}, vendorExportParser{}}

// styleColorViewParser handles the in-house convention:
// {style}_{Color_With_Underscores}_{view}.{ext}, e.g.
// 3001_Athletic_Heather_front.jpg.
type styleColorViewParser struct{}

func (styleColorViewParser) Parse(filename, styleNumber string) (ParsedName, bool) {
	stem, ok := imageStem(filename)
	if !ok {
		return ParsedName{}, false
	}

	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return ParsedName{}, false
	}
	if !strings.EqualFold(parts[0], styleNumber) {
		return ParsedName{}, false
	}

	view := View(strings.ToLower(parts[len(parts)-1]))
	if view != ViewFront && view != ViewBack && view != ViewSide {
		return ParsedName{}, false
	}

	colorName := NormalizeColorName(strings.Join(parts[1:len(parts)-1], " "))
	if colorName == "" {
		return ParsedName{}, false
	}

	return ParsedName{StyleNumber: styleNumber, ColorName: colorName, View: view}, true
}

// vendorExportParser handles the vendor naming scheme that embeds a brand
// prefix, the style number, the color, a capitalized view, and a quality
// suffix, e.g. BELLA_+_CANVAS_3001Y_Ash_Front_High.jpg. The style token is
// located anywhere in the name; everything between it and the view token is
// the color, and the quality suffix is discarded.
type vendorExportParser struct{}

func (vendorExportParser) Parse(filename, styleNumber string) (ParsedName, bool) {
	stem, ok := imageStem(filename)
	if !ok {
		return ParsedName{}, false
	}

	parts := strings.Split(stem, "_")
	styleIdx := -1
	for i, part := range parts {
		if strings.EqualFold(part, styleNumber) {
			styleIdx = i
			break
		}
	}
	if styleIdx < 0 {
		return ParsedName{}, false
	}

	for i := styleIdx + 1; i < len(parts); i++ {
		var view View
		switch strings.ToLower(parts[i]) {
		case "front":
			view = ViewFront
		case "back":
			view = ViewBack
		default:
			continue
		}

		colorName := NormalizeColorName(strings.Join(parts[styleIdx+1:i], " "))
		if colorName == "" {
			return ParsedName{}, false
		}
		return ParsedName{StyleNumber: styleNumber, ColorName: colorName, View: view}, true
	}

	return ParsedName{}, false
}

// parseFilename runs the strategy chain in order; the first grammar that
// matches wins. Unparseable names are not an error, just a miss.
func parseFilename(filename, styleNumber string) (ParsedName, bool) {
	for _, p := range defaultParsers {
		if parsed, ok := p.Parse(filename, styleNumber); ok {
			return parsed, true
		}
	}
	return ParsedName{}, false
}

// imageStem strips a recognized image extension, reporting false for any
// other file type.
func imageStem(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return strings.TrimSuffix(filename, filepath.Ext(filename)), true
		}
	}
	return "", false
}

// NormalizeColorName converts underscores to spaces, collapses whitespace,
// and title-cases the result for display and matching.
func NormalizeColorName(name string) string {
	fields := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, field := range fields {
		fields[i] = strings.ToUpper(field[:1]) + strings.ToLower(field[1:])
	}
	return strings.Join(fields, " ")
}

// ColorKey reduces a color name to its matching form: lowercase with
// underscores treated as spaces. "athletic heather" and "Athletic_Heather"
// share a key.
func ColorKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " "))
}
