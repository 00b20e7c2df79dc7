package boletin

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siniestros/boletin/internal/logging"
)

// The image slot in a template is an <image> element whose href carries
// the photo placeholder. Hiding the slot keeps the layout attributes
// (x, y, width, height) untouched.
const (
	photoSlot       = `href="{{FOTO}}"`
	photoSlotHidden = `href="" style="display:none"`
	displayNone     = `style="display:none"`
)

// mimeTypes maps photo file extensions to the MIME type used in the
// data URI. Unknown extensions fall back to image/jpeg.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

// EmbedPhoto splices the photo at the given path into the document's
// image slot as a base64 data URI. When the path is empty, the file does
// not exist, or reading it fails, the slot is hidden instead.
//
// Embedding never fails the render: a bulletin without its photo is
// still useful, so errors are logged and the photo-less document is
// returned.
func EmbedPhoto(svg, photoPath string) string {
	if photoPath == "" || !fileExists(photoPath) {
		return strings.ReplaceAll(svg, photoSlot, photoSlotHidden)
	}

	data, err := os.ReadFile(photoPath)
	if err != nil {
		logging.Error("Failed to read photo %v: %v", photoPath, err)
		return strings.ReplaceAll(svg, photoSlot, photoSlotHidden)
	}

	mime := mimeTypes[strings.ToLower(filepath.Ext(photoPath))]
	if mime == "" {
		mime = "image/jpeg"
	}

	uri := fmt.Sprintf("data:%v;base64,%v", mime, base64.StdEncoding.EncodeToString(data))
	svg = strings.ReplaceAll(svg, photoSlot, fmt.Sprintf("href=%q", uri))

	// The slot may have been authored hidden; make the photo visible.
	svg = strings.ReplaceAll(svg, displayNone, "")

	return svg
}
