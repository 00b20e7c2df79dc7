package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siniestros/boletin"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="1000" viewBox="0 0 800 1000">
  <rect x="0" y="0" width="800" height="1000" fill="#ffffff"/>
  <rect x="100" y="100" width="600" height="200" fill="#cc0000"/>
  <circle cx="400" cy="700" r="150" fill="#0000cc"/>
</svg>
`

func TestToPNGDefaultDimensions(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	data, err := r.ToPNG(testSVG, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
}

func TestToPNGExplicitDimensions(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	data, err := r.ToPNG(testSVG, 400, 500)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestToPNGDeterministicDimensions(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	for i := 0; i < 2; i++ {
		data, err := r.ToPNG(testSVG, 800, 1000)
		require.NoError(t, err)

		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 800, cfg.Width)
		assert.Equal(t, 1000, cfg.Height)
	}
}

// countPixels decodes the PNG and counts the pixels matching the
// predicate.
func countPixels(t *testing.T, data []byte, match func(c color.Color) bool) int {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.At(x, y)) {
				n++
			}
		}
	}
	return n
}

func isDark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a > 0 && r < 0x4000 && g < 0x4000 && b < 0x4000
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xc000 && g < 0x4000 && b < 0x4000
}

func TestToPNGDrawsText(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 1000">
  <rect x="0" y="0" width="800" height="1000" fill="#ffffff"/>
  <text x="50" y="500" font-size="200" fill="#000000">HOLA</text>
</svg>`

	data, err := r.ToPNG(svg, 800, 1000)
	require.NoError(t, err)

	dark := countPixels(t, data, isDark)
	assert.Greater(t, dark, 100, "text content is missing from the bitmap")
}

// redPhotoSVG embeds a solid red photo as a data URI in the image slot.
func redPhotoSVG(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 1000">
  <rect x="0" y="0" width="800" height="1000" fill="#ffffff"/>
  <image x="100" y="100" width="600" height="600" href=%q/>
</svg>`, uri)
}

func TestToPNGDrawsEmbeddedPhoto(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	data, err := r.ToPNG(redPhotoSVG(t), 800, 1000)
	require.NoError(t, err)

	red := countPixels(t, data, isRed)
	assert.Greater(t, red, 1000, "embedded photo is missing from the bitmap")
}

func TestToPNGHiddenImageSlotNotDrawn(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 1000">
  <rect x="0" y="0" width="800" height="1000" fill="#ffffff"/>
  <image x="100" y="100" width="600" height="600" href="" style="display:none"/>
</svg>`

	data, err := r.ToPNG(svg, 800, 1000)
	require.NoError(t, err)

	assert.Zero(t, countPixels(t, data, isRed))
	assert.Zero(t, countPixels(t, data, isDark))
}

func TestParseOverlays(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 1000">
  <text x="150" y="210" font-size="24" fill="#333333">Evento &lt;peligroso&gt; &amp; grave</text>
  <text x="60" y="495"></text>
  <image x="400" y="600" width="300" height="300" href="" style="display:none"/>
</svg>`

	texts, images, err := parseOverlays(svg)
	require.NoError(t, err)

	// The empty text element is dropped; entities come back decoded.
	require.Len(t, texts, 1)
	assert.Equal(t, "Evento <peligroso> & grave", texts[0].content)
	assert.Equal(t, 150.0, texts[0].x)
	assert.Equal(t, 210.0, texts[0].y)
	assert.Equal(t, 24.0, texts[0].size)

	// The hidden slot produces no overlay.
	assert.Empty(t, images)
}

func TestToPNGMalformedDocument(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	_, err := r.ToPNG("this is not markup <<<", 0, 0)
	require.Error(t, err)
	assert.True(t, boletin.IsTemplateParseError(err))
}

func TestToPDF(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	data, err := r.ToPDF(testSVG)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, []byte("%PDF"), data[:4])
}

func TestToPDFWithTextAndPhoto(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	data, err := r.ToPDF(redPhotoSVG(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, []byte("%PDF"), data[:4])
}

func TestToPDFMalformedDocument(t *testing.T) {
	r := Rasterizer{TempDir: t.TempDir()}

	_, err := r.ToPDF("no drawable here")
	require.Error(t, err)
	assert.True(t, boletin.IsTemplateParseError(err))
}

func TestTransientFilesAreCleanedUp(t *testing.T) {
	dir := t.TempDir()
	r := Rasterizer{TempDir: dir}

	_, err := r.ToPNG(testSVG, 0, 0)
	require.NoError(t, err)

	_, err = r.ToPDF(testSVG)
	require.NoError(t, err)

	// The failure path must clean up as well.
	_, err = r.ToPNG("broken <<<", 0, 0)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "transient SVG files were left behind")
}
