// internal/mockups/resolver.go
package mockups

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// PublicMountPath is where mockup files are served from.
const PublicMountPath = "/uploads/mockups"

// Resolver locates the best available mockup image for a
// (style, color, view) request across two search roots: the app-managed
// uploads directory first, then the bulk-upload directory. A missing
// directory, an unreadable file, or an unparseable name is never an error;
// the product page must still render with whatever is available.
type Resolver struct {
	roots []string
}

// NewResolver builds a resolver over the two configured mockup
// directories, most preferred first. Empty entries are dropped.
func NewResolver(roots ...string) *Resolver {
	r := &Resolver{}
	for _, root := range roots {
		if root != "" {
			r.roots = append(r.roots, root)
		}
	}
	return r
}

// DiscoveredColor is one color found in a style's mockup folder, with
// whichever views had a parseable image.
type DiscoveredColor struct {
	ColorName  string `json:"color_name"`
	FrontImage string `json:"front_image"`
	BackImage  string `json:"back_image"`
}

// Resolve returns the public URL of the best matching mockup file for the
// style, color, and view, or "" when no local file matches. Callers fall
// back to whatever remote URL the database variant carries.
func (r *Resolver) Resolve(styleNumber, colorName string, view View) string {
	safeColor := strings.ReplaceAll(NormalizeColorName(colorName), " ", "_")
	if safeColor == "" {
		return ""
	}

	// Fast path: the in-house convention names the file exactly.
	baseName := styleNumber + "_" + safeColor + "_" + string(view)
	for _, root := range r.roots {
		styleDir := filepath.Join(root, styleNumber)
		for _, ext := range imageExtensions {
			filename := baseName + ext
			if info, err := os.Stat(filepath.Join(styleDir, filename)); err == nil && !info.IsDir() {
				return mockupURL(styleNumber, filename)
			}
		}
	}

	// Slow path: scan the folder and parse every name, covering the
	// vendor-export convention and case variations of the in-house one.
	want := ColorKey(colorName)
	for _, root := range r.roots {
		for _, entry := range r.listStyleDir(root, styleNumber) {
			parsed, ok := parseFilename(entry, styleNumber)
			if !ok {
				logrus.WithField("file", entry).Debug("skipping unrecognized mockup filename")
				continue
			}
			if parsed.View == view && ColorKey(parsed.ColorName) == want {
				return mockupURL(styleNumber, entry)
			}
		}
	}

	return ""
}

// DiscoverColors scans every search root's style folder and groups
// parseable images by normalized color name, including colors that have no
// database record yet. Pure read, no side effects.
func (r *Resolver) DiscoverColors(styleNumber string) []DiscoveredColor {
	seen := make(map[string]*DiscoveredColor)
	var order []string

	for _, root := range r.roots {
		for _, entry := range r.listStyleDir(root, styleNumber) {
			parsed, ok := parseFilename(entry, styleNumber)
			if !ok {
				logrus.WithField("file", entry).Debug("skipping unrecognized mockup filename")
				continue
			}

			key := ColorKey(parsed.ColorName)
			color, exists := seen[key]
			if !exists {
				color = &DiscoveredColor{ColorName: parsed.ColorName}
				seen[key] = color
				order = append(order, key)
			}

			url := mockupURL(styleNumber, entry)
			switch parsed.View {
			case ViewFront:
				if color.FrontImage == "" {
					color.FrontImage = url
				}
			case ViewBack:
				if color.BackImage == "" {
					color.BackImage = url
				}
			}
		}
	}

	colors := make([]DiscoveredColor, 0, len(order))
	for _, key := range order {
		colors = append(colors, *seen[key])
	}
	return colors
}

// DiscoverStyles lists every style number that has a mockup folder in any
// search root.
func (r *Resolver) DiscoverStyles() []string {
	seen := make(map[string]bool)
	var styles []string

	for _, root := range r.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if !seen[entry.Name()] {
				seen[entry.Name()] = true
				styles = append(styles, entry.Name())
			}
		}
	}

	sort.Strings(styles)
	return styles
}

// listStyleDir returns the filenames in root/{style}, sorted for stable
// first-match behavior. A missing or unreadable directory yields nil.
func (r *Resolver) listStyleDir(root, styleNumber string) []string {
	entries, err := os.ReadDir(filepath.Join(root, styleNumber))
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func mockupURL(styleNumber, filename string) string {
	return PublicMountPath + "/" + styleNumber + "/" + filename
}
