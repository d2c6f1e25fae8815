// internal/mockups/parser_test.go
package mockups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleColorViewParser(t *testing.T) {
	parsed, ok := parseFilename("3001_Athletic_Heather_front.jpg", "3001")
	assert.True(t, ok)
	assert.Equal(t, "Athletic Heather", parsed.ColorName)
	assert.Equal(t, ViewFront, parsed.View)

	parsed, ok = parseFilename("3001CVC_Black_Heather_back.png", "3001CVC")
	assert.True(t, ok)
	assert.Equal(t, "Black Heather", parsed.ColorName)
	assert.Equal(t, ViewBack, parsed.View)

	// Single-word color, side view
	parsed, ok = parseFilename("3001_Aqua_side.webp", "3001")
	assert.True(t, ok)
	assert.Equal(t, "Aqua", parsed.ColorName)
	assert.Equal(t, ViewSide, parsed.View)
}

func TestStyleColorViewParserRejects(t *testing.T) {
	// Wrong style prefix
	_, ok := parseFilename("3001_Aqua_front.jpg", "3001Y")
	assert.False(t, ok)

	// Not a view token
	_, ok = parseFilename("3001_Aqua_sleeve.jpg", "3001")
	assert.False(t, ok)

	// Too few segments
	_, ok = parseFilename("3001_front.jpg", "3001")
	assert.False(t, ok)

	// Not an image
	_, ok = parseFilename("3001_Aqua_front.pdf", "3001")
	assert.False(t, ok)
}

func TestVendorExportParser(t *testing.T) {
	parsed, ok := parseFilename("BELLA_+_CANVAS_3001Y_Ash_Front_High.jpg", "3001Y")
	assert.True(t, ok)
	assert.Equal(t, "Ash", parsed.ColorName)
	assert.Equal(t, ViewFront, parsed.View)

	// Multi-word color, quality suffix discarded
	parsed, ok = parseFilename("BELLA_+_CANVAS_3001CVC_Heather_Deep_Teal_Back_High.png", "3001CVC")
	assert.True(t, ok)
	assert.Equal(t, "Heather Deep Teal", parsed.ColorName)
	assert.Equal(t, ViewBack, parsed.View)

	// View token matched case-insensitively
	parsed, ok = parseFilename("BRANDX_3001_Forest_FRONT.jpg", "3001")
	assert.True(t, ok)
	assert.Equal(t, "Forest", parsed.ColorName)
	assert.Equal(t, ViewFront, parsed.View)
}

func TestVendorExportParserRejects(t *testing.T) {
	// Style token absent
	_, ok := parseFilename("BELLA_+_CANVAS_3001Y_Ash_Front_High.jpg", "3001")
	assert.False(t, ok)

	// No view token after the style
	_, ok = parseFilename("BELLA_+_CANVAS_3001Y_Ash_High.jpg", "3001Y")
	assert.False(t, ok)

	// Nothing between style and view
	_, ok = parseFilename("BELLA_+_CANVAS_3001Y_Front_High.jpg", "3001Y")
	assert.False(t, ok)
}

func TestNormalizeColorName(t *testing.T) {
	assert.Equal(t, "Athletic Heather", NormalizeColorName("athletic_heather"))
	assert.Equal(t, "Athletic Heather", NormalizeColorName("ATHLETIC HEATHER"))
	assert.Equal(t, "Dark Grey Heather", NormalizeColorName("dark__grey_heather"))
	assert.Equal(t, "", NormalizeColorName("  "))
}

func TestColorKeyEquivalence(t *testing.T) {
	assert.Equal(t, ColorKey("Athletic_Heather"), ColorKey("athletic heather"))
	assert.Equal(t, ColorKey("Solid White Blend"), ColorKey("solid_white_blend"))
	assert.NotEqual(t, ColorKey("Ash"), ColorKey("Asphalt"))
}
