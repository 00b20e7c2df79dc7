package render

import (
	"bytes"
	"image/png"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/internal/logging"
)

// ToPNG converts the document to a PNG bitmap at the given pixel
// dimensions. Non-positive dimensions select the portrait defaults
// (800 x 1000).
func (r Rasterizer) ToPNG(svg string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	logging.Debug("Render PNG at %dx%d", width, height)

	path, cleanup, err := r.writeTransient(svg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	icon, err := loadIcon(path)
	if err != nil {
		return nil, err
	}

	img, err := rasterize(icon, width, height)
	if err != nil {
		return nil, err
	}

	err = drawOverlays(img, svg, icon.ViewBox.W, icon.ViewBox.H)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = png.Encode(&buf, img)
	if err != nil {
		logging.Error("Failed to encode PNG: %v", err)
		return nil, boletin.Wrap(err, "failed to encode PNG")
	}

	if buf.Len() == 0 {
		return nil, boletin.NewEmptyOutputError("PNG buffer is empty")
	}

	return buf.Bytes(), nil
}
