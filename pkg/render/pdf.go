package render

import (
	"bytes"
	"image/png"
	"math"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/internal/logging"
)

// rasterWidth is the pixel width the document is rasterized at before
// being placed on the PDF page. Roughly 150 dpi over A4.
const rasterWidth = 1240

// ToPDF converts the document to a single-page portrait A4 PDF.
// The SVG is rasterized and the bitmap scaled to the page width.
func (r Rasterizer) ToPDF(svg string) ([]byte, error) {
	logging.Debug("Render PDF")

	path, cleanup, err := r.writeTransient(svg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	icon, err := loadIcon(path)
	if err != nil {
		return nil, err
	}

	// Keep the template's aspect ratio; fall back on the portrait
	// bulletin proportions when the viewBox is unusable.
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	rasterHeight := int(math.Round(float64(rasterWidth) * h / w))

	img, err := rasterize(icon, rasterWidth, rasterHeight)
	if err != nil {
		return nil, err
	}

	err = drawOverlays(img, svg, icon.ViewBox.W, icon.ViewBox.H)
	if err != nil {
		return nil, err
	}

	var imgBuf bytes.Buffer
	err = png.Encode(&imgBuf, img)
	if err != nil {
		logging.Error("Failed to encode page bitmap: %v", err)
		return nil, boletin.Wrap(err, "failed to encode page bitmap")
	}

	pdf := setupPDF()
	pdf.AddPage()

	name := uuid.New().String()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &imgBuf)

	// Scale the bitmap to the full page width; height follows from the
	// aspect ratio.
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(name, 0, 0, pageW, 0, false, opts, 0, "")

	var out bytes.Buffer
	err = pdf.Output(&out)
	if err != nil {
		logging.Error("Failed to produce PDF: %v", err)
		return nil, boletin.Wrap(err, "failed to produce PDF")
	}

	if out.Len() == 0 {
		return nil, boletin.NewEmptyOutputError("PDF buffer is empty")
	}

	err = api.Validate(bytes.NewReader(out.Bytes()), nil)
	if err != nil {
		logging.Error("Generated PDF failed validation: %v", err)
		return nil, boletin.Wrap(err, "generated PDF failed validation")
	}

	return out.Bytes(), nil
}

func setupPDF() *gofpdf.Fpdf {
	orientation := "P" // [P]ortrait or [L]andscape
	sizeUnit := "pt"
	fontDir := ""
	pdf := gofpdf.New(orientation, sizeUnit, "A4", fontDir)

	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetProducer("boletin", true)

	return pdf
}
