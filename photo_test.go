package boletin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageSlot = `<image x="1" y="2" width="3" height="4" href="{{FOTO}}"/>`

func TestEmbedPhotoEmptyPath(t *testing.T) {
	out := EmbedPhoto(imageSlot, "")
	assert.Contains(t, out, `href="" style="display:none"`)
	assert.NotContains(t, out, "{{FOTO}}")
}

func TestEmbedPhotoMissingFile(t *testing.T) {
	out := EmbedPhoto(imageSlot, filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Contains(t, out, `href="" style="display:none"`)
}

func TestEmbedPhotoKeepsLayoutAttributes(t *testing.T) {
	out := EmbedPhoto(imageSlot, "")
	assert.Contains(t, out, `x="1" y="2" width="3" height="4"`)
}

func TestEmbedPhotoMimeTypes(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		mime string
	}{
		{"foto.jpg", "image/jpeg"},
		{"foto.JPEG", "image/jpeg"},
		{"foto.png", "image/png"},
		{"foto.gif", "image/gif"},
		{"foto.bmp", "image/bmp"},
		{"foto.webp", "image/jpeg"}, // unknown extension defaults
	}

	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

		out := EmbedPhoto(imageSlot, path)
		assert.Contains(t, out, "data:"+c.mime+";base64,", "file %v", c.name)
	}
}

func TestEmbedPhotoClearsHiddenSlot(t *testing.T) {
	hidden := strings.Replace(imageSlot, `href="{{FOTO}}"`, `href="{{FOTO}}" style="display:none"`, 1)

	path := filepath.Join(t.TempDir(), "foto.png")
	require.NoError(t, os.WriteFile(path, []byte{1}, 0644))

	out := EmbedPhoto(hidden, path)
	assert.NotContains(t, out, "display:none")
	assert.Contains(t, out, "data:image/png;base64,")
}
