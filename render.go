package boletin

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/siniestros/boletin/internal/logging"
)

const timestampFormat = "2006-01-02 15:04:05"

// Bulletin holds the incident data substituted into a template.
// All textual fields are caller-supplied and treated as untrusted plain
// text; dates and times are embedded verbatim, not parsed.
type Bulletin struct {
	Type        string
	Zone        string
	BranchID    string
	BranchName  string
	EventDate   string
	EventTime   string
	Description string
	// PhotoPath points at the incident photo, as returned by
	// PhotoStore.Store. Empty means no photo.
	PhotoPath string
}

// Renderer produces the substituted SVG document for one incident.
// It is stateless across calls; the template is read fresh on every
// render.
type Renderer struct {
	cfg Config
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// placeholders are the textual tokens every template must carry.
// They are a wire contract with the template authors.
var placeholders = []string{
	"{{ZONA}}",
	"{{IDCENTRO}}",
	"{{SUCURSAL}}",
	"{{FECHA}}",
	"{{HORA}}",
	"{{DESCRIPCION}}",
	"{{GENERATE_DATE}}",
	"{{FOTO}}",
}

// Render resolves the template for the bulletin's incident type,
// substitutes the escaped field values and the generation timestamp,
// embeds or hides the photo, and returns the complete SVG source.
//
// The returned document contains no residual placeholder tokens; a
// template that is missing a token or carries an unknown one fails the
// render instead of producing a silently incomplete bulletin.
func (r *Renderer) Render(b Bulletin) (string, error) {
	path, err := r.Resolve(b.Type)
	if err != nil {
		return "", err
	}

	logging.Debug("Render bulletin type %q from template %v", b.Type, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", Wrap(err, "failed to read template %v", path)
	}
	svg := string(data)

	fields := []struct {
		token string
		value string
	}{
		{"{{ZONA}}", Escape(b.Zone)},
		{"{{IDCENTRO}}", Escape(b.BranchID)},
		{"{{SUCURSAL}}", Escape(b.BranchName)},
		{"{{FECHA}}", Escape(b.EventDate)},
		{"{{HORA}}", Escape(b.EventTime)},
		{"{{DESCRIPCION}}", Escape(b.Description)},
		{"{{GENERATE_DATE}}", time.Now().Format(timestampFormat)},
	}
	for _, f := range fields {
		svg = strings.ReplaceAll(svg, f.token, f.value)
	}

	svg = EmbedPhoto(svg, b.PhotoPath)

	for _, token := range placeholders {
		if strings.Contains(svg, token) {
			return "", fmt.Errorf("template %v: unresolved placeholder %v", path, token)
		}
	}

	return svg, nil
}
