package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/internal/logging"
)

// The SVG scanner paints shapes and paths only. The bulletin's textual
// fields and the embedded photo live in <text> and <image> elements, so
// they are drawn onto the bitmap in a second pass.

type textOverlay struct {
	x, y, size float64
	fill       color.Color
	content    string
}

type imageOverlay struct {
	x, y, w, h float64
	data       image.Image
}

var (
	fontOnce    sync.Once
	overlayFont *truetype.Font
)

func textFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			logging.Error("Failed to parse overlay font: %v", err)
			return
		}
		overlayFont = f
	})

	if overlayFont == nil {
		return nil
	}
	return truetype.NewFace(overlayFont, &truetype.Options{Size: size, DPI: 72})
}

// drawOverlays paints the document's text and embedded-image elements
// onto the rasterized bitmap. Coordinates are given in viewBox units
// and scaled to the bitmap dimensions; SVG anchors text at the
// baseline, which matches the drawing context.
func drawOverlays(img *image.RGBA, svg string, viewW, viewH float64) error {
	texts, images, err := parseOverlays(svg)
	if err != nil {
		logging.Error("Failed to parse overlay elements: %v", err)
		return boletin.NewTemplateParseError("%v", err)
	}

	b := img.Bounds()
	if viewW <= 0 || viewH <= 0 {
		viewW, viewH = float64(b.Dx()), float64(b.Dy())
	}
	scaleX := float64(b.Dx()) / viewW
	scaleY := float64(b.Dy()) / viewH

	// The photo goes first so labels stay on top of it.
	for _, o := range images {
		rect := image.Rect(
			int(math.Round(o.x*scaleX)),
			int(math.Round(o.y*scaleY)),
			int(math.Round((o.x+o.w)*scaleX)),
			int(math.Round((o.y+o.h)*scaleY)),
		)
		xdraw.CatmullRom.Scale(img, rect, o.data, o.data.Bounds(), xdraw.Over, nil)
	}

	dc := gg.NewContextForRGBA(img)
	for _, o := range texts {
		face := textFace(o.size * scaleY)
		if face == nil {
			continue
		}
		dc.SetFontFace(face)
		dc.SetColor(o.fill)
		dc.DrawString(o.content, o.x*scaleX, o.y*scaleY)
	}

	return nil
}

// parseOverlays extracts the <text> and <image> elements from the
// document. Hidden or empty image slots are skipped; an unreadable
// embedded image degrades to the photo-less bitmap, mirroring the
// embedding policy.
func parseOverlays(svg string) ([]textOverlay, []imageOverlay, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))

	var texts []textOverlay
	var images []imageOverlay

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "text":
			t, err := parseTextElement(dec, start)
			if err != nil {
				return nil, nil, err
			}
			if t.content != "" {
				texts = append(texts, t)
			}
		case "image":
			o, ok := parseImageElement(start)
			if ok {
				images = append(images, o)
			}
		}
	}

	return texts, images, nil
}

func parseTextElement(dec *xml.Decoder, start xml.StartElement) (textOverlay, error) {
	t := textOverlay{size: 16, fill: color.Black}

	for _, a := range start.Attr {
		switch a.Name.Local {
		case "x":
			t.x = floatAttr(a.Value, 0)
		case "y":
			t.y = floatAttr(a.Value, 0)
		case "font-size":
			t.size = floatAttr(strings.TrimSuffix(a.Value, "px"), 16)
		case "fill":
			t.fill = parseFill(a.Value)
		}
	}

	// Collect the character data, including any nested tspans.
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return t, err
		}
		switch tk := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(tk)
		}
	}
	t.content = strings.TrimSpace(sb.String())

	return t, nil
}

func parseImageElement(start xml.StartElement) (imageOverlay, bool) {
	var o imageOverlay
	href := ""

	for _, a := range start.Attr {
		switch a.Name.Local {
		case "x":
			o.x = floatAttr(a.Value, 0)
		case "y":
			o.y = floatAttr(a.Value, 0)
		case "width":
			o.w = floatAttr(a.Value, 0)
		case "height":
			o.h = floatAttr(a.Value, 0)
		case "href":
			href = a.Value
		case "style":
			if strings.Contains(a.Value, "display:none") {
				return o, false
			}
		}
	}

	if href == "" || o.w <= 0 || o.h <= 0 {
		return o, false
	}

	img, err := decodeDataURI(href)
	if err != nil {
		logging.Warning("Skipping embedded image: %v", err)
		return o, false
	}
	o.data = img

	return o, true
}

func decodeDataURI(href string) (image.Image, error) {
	if !strings.HasPrefix(href, "data:") {
		return nil, fmt.Errorf("unsupported image reference %q", href)
	}

	idx := strings.Index(href, ";base64,")
	if idx < 0 {
		return nil, fmt.Errorf("image data URI is not base64")
	}

	raw, err := base64.StdEncoding.DecodeString(href[idx+len(";base64,"):])
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func floatAttr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseFill(s string) color.Color {
	s = strings.TrimSpace(strings.ToLower(s))

	switch s {
	case "", "black":
		return color.Black
	case "white":
		return color.White
	case "none":
		return color.Transparent
	}

	if strings.HasPrefix(s, "#") {
		if c, ok := hexColor(s[1:]); ok {
			return c
		}
	}

	return color.Black
}

func hexColor(h string) (color.Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, false
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, false
	}

	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}
