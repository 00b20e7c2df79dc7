package boletin

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"github.com/siniestros/boletin/internal/fs"
	"github.com/siniestros/boletin/internal/logging"
)

// maxPhotoSide bounds the pixel dimensions of a stored photo. Larger
// uploads are downscaled so the data URI embedded into the bulletin
// stays reasonable.
const maxPhotoSide = 2000

// PhotoStore persists incident photos under a per-incident directory.
// At most one photo exists per incident; storing a new one replaces the
// previous file.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{dir: dir}
}

// Store copies the file at src into the incident's directory, named
// after the incident ID with the extension of the original filename.
// The directory is created if needed and the copy goes through a
// write-then-rename so that a concurrent render reading the previous
// photo never observes a partial file.
//
// The returned path has the shape <base>/<id>/<id><ext> and is suitable
// as a Bulletin.PhotoPath. I/O errors are propagated unmasked so a
// failed upload stays visible to the uploader.
func (s *PhotoStore) Store(src string, incidentID int, originalName string) (string, error) {
	dir := filepath.Join(s.dir, fmt.Sprint(incidentID))
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d%v", incidentID, filepath.Ext(originalName))
	dst := filepath.Join(dir, name)

	err = fs.CopyAtomic(dst, src)
	if err != nil {
		return "", err
	}

	logging.Info("Stored photo for incident %d at %v", incidentID, dst)
	return filepath.Join(s.dir, fmt.Sprint(incidentID), name), nil
}

// NormalizePhoto validates that the file at path is a decodable
// JPEG, PNG, GIF or BMP image and downscales it in place when its
// longest side exceeds the stored size bound. GIF and BMP photos are
// validated but kept at their original size.
func NormalizePhoto(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Wrap(err, "not a supported image")
	}

	if cfg.Width <= maxPhotoSide && cfg.Height <= maxPhotoSide {
		return nil
	}
	if format != "jpeg" && format != "png" {
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Wrap(err, "not a supported image")
	}

	scaled := downscale(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, scaled)
	}
	if err != nil {
		return err
	}

	logging.Debug("Downscaled photo %v from %dx%d", path, cfg.Width, cfg.Height)
	return fs.WriteAtomic(path, &buf)
}

// downscale scales the image so its longest side equals maxPhotoSide,
// preserving the aspect ratio.
func downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := float64(maxPhotoSide) / float64(w)
	if h > w {
		scale = float64(maxPhotoSide) / float64(h)
	}

	size := image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale))
	dst := image.NewRGBA(size)
	xdraw.CatmullRom.Scale(dst, size, img, b, xdraw.Over, nil)
	return dst
}
