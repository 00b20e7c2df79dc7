// Package render converts substituted bulletin SVG documents into their
// final output formats. It offers two independent backends: a paginated
// PDF and a fixed-resolution PNG.
//
// Both backends write the document to a transient file with a unique
// name and guarantee its removal on every exit path. Failures are
// logged in full and propagated; unlike photo embedding there is no
// degraded fallback, since a bulletin that cannot be rasterized must
// surface as an error rather than a corrupted artifact.
package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/internal/logging"
)

// Default pixel dimensions for a portrait single-page bulletin.
const (
	DefaultWidth  = 800
	DefaultHeight = 1000
)

// Rasterizer renders bulletin SVG documents. The zero value is usable
// and writes its transient files to the system temp directory.
type Rasterizer struct {
	// TempDir receives the transient SVG files written during
	// conversion. Empty means the system default.
	TempDir string
}

// writeTransient persists the document to a uniquely named file and
// returns its path together with a cleanup func. Names are random per
// invocation so concurrent renders never contend on the same file.
func (r Rasterizer) writeTransient(svg string) (string, func(), error) {
	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, fmt.Sprintf("boletin-%v.svg", uuid.New()))
	err := os.WriteFile(path, []byte(svg), 0600)
	if err != nil {
		return "", nil, boletin.Wrap(err, "failed to write transient SVG")
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			logging.Error("Failed to remove transient SVG %v: %v", path, err)
		}
	}
	return path, cleanup, nil
}

// loadIcon parses the transient file into a drawable graphic.
func loadIcon(path string) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIcon(path)
	if err != nil {
		logging.Error("Failed to parse SVG %v: %v", path, err)
		return nil, boletin.NewTemplateParseError("%v", err)
	}
	if icon == nil || len(icon.SVGPaths) == 0 {
		return nil, boletin.NewTemplateParseError("document yields no drawable")
	}
	return icon, nil
}

// rasterize draws the icon onto a width x height bitmap.
// The SVG scanner panics on some malformed path data; that is converted
// into a parse error here so it propagates like any other failure.
func rasterize(icon *oksvg.SvgIcon, width, height int) (img *image.RGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			logging.Error("Rasterization panic: %v", p)
			err = boletin.NewTemplateParseError("rasterization failed: %v", p)
			img = nil
		}
	}()

	icon.SetTarget(0, 0, float64(width), float64(height))
	img = image.NewRGBA(image.Rect(0, 0, width, height))

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)

	return img, nil
}
