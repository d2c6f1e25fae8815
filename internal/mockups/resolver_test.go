// internal/mockups/resolver_test.go
package mockups

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMockup(t *testing.T, root, style, name string) {
	t.Helper()
	dir := filepath.Join(root, style)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
}

func TestResolveConventionA(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "3001_Athletic_Heather_front.jpg")

	r := NewResolver(root)
	url := r.Resolve("3001", "Athletic Heather", ViewFront)
	assert.Equal(t, "/uploads/mockups/3001/3001_Athletic_Heather_front.jpg", url)

	// No back view uploaded
	assert.Empty(t, r.Resolve("3001", "Athletic Heather", ViewBack))
}

func TestResolveCaseAndSpacingInsensitive(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "3001_Athletic_Heather_front.jpg")

	r := NewResolver(root)
	assert.Equal(t,
		"/uploads/mockups/3001/3001_Athletic_Heather_front.jpg",
		r.Resolve("3001", "athletic heather", ViewFront))
}

func TestResolveVendorExportFormat(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001Y", "BELLA_+_CANVAS_3001Y_Ash_Front_High.jpg")

	r := NewResolver(root)
	assert.Equal(t,
		"/uploads/mockups/3001Y/BELLA_+_CANVAS_3001Y_Ash_Front_High.jpg",
		r.Resolve("3001Y", "Ash", ViewFront))
}

func TestResolvePrefersPrimaryRoot(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()
	writeMockup(t, primary, "3001", "3001_Black_front.jpg")
	writeMockup(t, secondary, "3001", "3001_Black_front.png")

	r := NewResolver(primary, secondary)
	assert.Equal(t, "/uploads/mockups/3001/3001_Black_front.jpg",
		r.Resolve("3001", "Black", ViewFront))
}

func TestResolveExtensionOrder(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "3001_Black_front.webp")
	writeMockup(t, root, "3001", "3001_Black_front.jpeg")

	r := NewResolver(root)
	assert.Equal(t, "/uploads/mockups/3001/3001_Black_front.jpeg",
		r.Resolve("3001", "Black", ViewFront))
}

func TestResolveMissingStyleDir(t *testing.T) {
	r := NewResolver(t.TempDir())
	assert.Empty(t, r.Resolve("9999", "Black", ViewFront))
}

func TestDiscoverColorsBothFormats(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "3001_Athletic_Heather_front.jpg")
	writeMockup(t, root, "3001Y", "BRANDX_3001Y_Ash_Front_High.png")

	r := NewResolver(root)

	colors := r.DiscoverColors("3001")
	require.Len(t, colors, 1)
	assert.Equal(t, "Athletic Heather", colors[0].ColorName)
	assert.Equal(t, "/uploads/mockups/3001/3001_Athletic_Heather_front.jpg", colors[0].FrontImage)
	assert.Empty(t, colors[0].BackImage)

	colors = r.DiscoverColors("3001Y")
	require.Len(t, colors, 1)
	assert.Equal(t, "Ash", colors[0].ColorName)
	assert.Equal(t, "/uploads/mockups/3001Y/BRANDX_3001Y_Ash_Front_High.png", colors[0].FrontImage)
}

func TestDiscoverColorsGroupsViews(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "3001_Black_front.jpg")
	writeMockup(t, root, "3001", "3001_Black_back.jpg")
	writeMockup(t, root, "3001", "3001_White_front.jpg")

	r := NewResolver(root)
	colors := r.DiscoverColors("3001")
	require.Len(t, colors, 2)

	byName := map[string]DiscoveredColor{}
	for _, c := range colors {
		byName[c.ColorName] = c
	}
	assert.NotEmpty(t, byName["Black"].FrontImage)
	assert.NotEmpty(t, byName["Black"].BackImage)
	assert.NotEmpty(t, byName["White"].FrontImage)
	assert.Empty(t, byName["White"].BackImage)
}

func TestDiscoverColorsSkipsUnparseable(t *testing.T) {
	root := t.TempDir()
	writeMockup(t, root, "3001", "randomfile.png")
	writeMockup(t, root, "3001", "3001_Black_front.jpg")

	r := NewResolver(root)
	colors := r.DiscoverColors("3001")
	require.Len(t, colors, 1)
	assert.Equal(t, "Black", colors[0].ColorName)
}

func TestDiscoverColorsMergesAcrossRoots(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()
	writeMockup(t, primary, "3001", "3001_Black_front.jpg")
	writeMockup(t, secondary, "3001", "3001_black_back.jpg")

	r := NewResolver(primary, secondary)
	colors := r.DiscoverColors("3001")
	require.Len(t, colors, 1)
	assert.Equal(t, "Black", colors[0].ColorName)
	assert.NotEmpty(t, colors[0].FrontImage)
	assert.NotEmpty(t, colors[0].BackImage)
}

func TestDiscoverStyles(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()
	writeMockup(t, primary, "3001", "3001_Black_front.jpg")
	writeMockup(t, secondary, "3001CVC", "3001CVC_Black_front.jpg")
	writeMockup(t, secondary, "3001", "3001_White_front.jpg")

	r := NewResolver(primary, secondary)
	assert.Equal(t, []string{"3001", "3001CVC"}, r.DiscoverStyles())
}
