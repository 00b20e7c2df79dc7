// Package boletin renders incident bulletins ("boletines de siniestros")
// for a retail branch security operation.
//
// A bulletin is produced from an SVG template for one of five incident
// types. The template carries literal placeholder tokens which are
// replaced with escaped incident data, the incident photo is embedded as
// a base64 data URI, and the substituted document is handed to one of the
// rasterization backends in pkg/render to obtain PDF or PNG bytes.
package boletin

import (
	"strings"

	"github.com/siniestros/boletin/internal/logging"
)

// Config holds the directories the rendering pipeline works against.
// It is injected into the constructors so tests can point everything at
// temporary directories.
type Config struct {
	// TemplateDir contains the SVG bulletin templates.
	TemplateDir string
	// PhotoDir is the base directory for per-incident photo storage.
	PhotoDir string
	// TempDir receives the transient SVG files written during
	// rasterization. Empty means the system default.
	TempDir string
}

// The supported incident types.
const (
	Asalto     = "asalto"
	Extorsion  = "extorsion"
	Fardero    = "fardero"
	Intruso    = "intruso"
	Sospechoso = "sospechoso"
)

// legacyTemplates maps each incident type to its original template file.
// A type is valid exactly if it has an entry here.
var legacyTemplates = map[string]string{
	Asalto:     "Asalto.svg",
	Extorsion:  "Extorsion.svg",
	Fardero:    "Fardero.svg",
	Intruso:    "Intruso.svg",
	Sospechoso: "Sospechoso.svg",
}

// IncidentTypes returns the supported incident type tags in a stable order.
func IncidentTypes() []string {
	return []string{Asalto, Extorsion, Fardero, Intruso, Sospechoso}
}

// SetLogLevel sets the log level to one of
// "debug", "info", "warning" or "error".
func SetLogLevel(level string) {
	var lvl logging.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = logging.LevelDebug
	case "info":
		lvl = logging.LevelInfo
	case "warning":
		lvl = logging.LevelWarning
	case "error":
		lvl = logging.LevelError
	default:
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}
