package boletin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/siniestros/boletin/internal/logging"
)

// enhancedSuffix is appended to the capitalized incident type to form the
// filename of the reworked template family, e.g. "Asalto_Template.svg".
const enhancedSuffix = "_Template.svg"

// Resolve locates the template file for the given incident type.
// The type tag is matched case-insensitively against the supported set.
//
// The enhanced template variant is preferred; the legacy file is used
// when the enhanced one does not exist. The legacy fallback is kept for
// deployments that have not migrated their template set yet and is
// expected to be removed once the migration completes.
func (r *Renderer) Resolve(tipo string) (string, error) {
	key := strings.ToLower(tipo)

	legacy, ok := legacyTemplates[key]
	if !ok {
		return "", NewUnknownIncidentType(tipo)
	}

	enhanced := filepath.Join(r.cfg.TemplateDir, capitalize(key)+enhancedSuffix)
	if fileExists(enhanced) {
		return enhanced, nil
	}

	path := filepath.Join(r.cfg.TemplateDir, legacy)
	if fileExists(path) {
		logging.Warning("Using legacy template for %q", key)
		return path, nil
	}

	return "", NewTemplateNotFound("no template for type %q in %v", key, r.cfg.TemplateDir)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
