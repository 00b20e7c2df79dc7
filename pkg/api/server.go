// Package api exposes the bulletin rendering pipeline over HTTP.
//
// Incident records themselves live in an external data layer; the
// server only needs the small projection of fields a bulletin embeds,
// supplied through the IncidentSource interface.
package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/internal/logging"
	"github.com/siniestros/boletin/pkg/render"
)

// Incident is the projection of an incident record consumed by the
// renderer.
type Incident struct {
	ID          int    `json:"idSiniestro"`
	Type        string `json:"tipoSiniestro"`
	Zone        string `json:"zona"`
	BranchID    string `json:"idCentro"`
	BranchName  string `json:"sucursal"`
	EventDate   string `json:"fecha"`
	EventTime   string `json:"hora"`
	Description string `json:"descripcion"`
	PhotoPath   string `json:"rutaFoto"`
}

// IncidentSource resolves incident records from the external data layer.
type IncidentSource interface {
	// Incident returns the record for the given ID, or an error when
	// no such incident exists.
	Incident(id int) (Incident, error)
}

// Server is the bulletin HTTP server.
type Server struct {
	router    *gin.Engine
	incidents IncidentSource
	renderer  *boletin.Renderer
	photos    *boletin.PhotoStore
	raster    render.Rasterizer
}

// NewServer creates a bulletin server over the given incident source.
func NewServer(incidents IncidentSource, cfg boletin.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:    gin.Default(),
		incidents: incidents,
		renderer:  boletin.NewRenderer(cfg),
		photos:    boletin.NewPhotoStore(cfg.PhotoDir),
		raster:    render.Rasterizer{TempDir: cfg.TempDir},
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/siniestros/:id/boletin/pdf", s.handleBulletinPDF)
	s.router.GET("/siniestros/:id/boletin/imagen", s.handleBulletinImage)
	s.router.POST("/siniestros/:id/foto/subir", s.handleUploadPhoto)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	logging.Info("Bulletin server listening on %v", addr)
	return s.router.Run(addr)
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleBulletinPDF(c *gin.Context) {
	inc, ok := s.incident(c)
	if !ok {
		return
	}

	doc, ok := s.renderDocument(c, inc)
	if !ok {
		return
	}

	data, err := s.raster.ToPDF(doc)
	if err != nil {
		logging.Error("PDF generation failed for incident %d: %v", inc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generando boletin"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=boletin_%d.pdf", inc.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleBulletinImage(c *gin.Context) {
	inc, ok := s.incident(c)
	if !ok {
		return
	}

	width := intQuery(c, "ancho", render.DefaultWidth)
	height := intQuery(c, "alto", render.DefaultHeight)

	doc, ok := s.renderDocument(c, inc)
	if !ok {
		return
	}

	data, err := s.raster.ToPNG(doc, width, height)
	if err != nil {
		logging.Error("PNG generation failed for incident %d: %v", inc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generando boletin"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=boletin_%d.png", inc.ID))
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) handleUploadPhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de siniestro no valido"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archivo no recibido"})
		return
	}

	tmp, err := os.CreateTemp("", "subida-*"+filepath.Ext(file.Filename))
	if err != nil {
		logging.Error("Failed to create upload temp file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error guardando foto"})
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	err = c.SaveUploadedFile(file, tmp.Name())
	if err != nil {
		logging.Error("Failed to receive upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error guardando foto"})
		return
	}

	err = boletin.NormalizePhoto(tmp.Name())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el archivo no es una imagen valida"})
		return
	}

	rel, err := s.photos.Store(tmp.Name(), id, file.Filename)
	if err != nil {
		logging.Error("Failed to store photo for incident %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error guardando foto"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rutaFoto":      rel,
		"nombreArchivo": filepath.Base(rel),
	})
}

// incident resolves the :id path parameter into an incident record,
// writing the error response itself when that fails.
func (s *Server) incident(c *gin.Context) (Incident, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de siniestro no valido"})
		return Incident{}, false
	}

	inc, err := s.incidents.Incident(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "siniestro no encontrado"})
		return Incident{}, false
	}

	return inc, true
}

// renderDocument runs the template substitution, mapping the error
// taxonomy onto HTTP statuses without leaking filesystem detail.
func (s *Server) renderDocument(c *gin.Context, inc Incident) (string, bool) {
	doc, err := s.renderer.Render(boletin.Bulletin{
		Type:        inc.Type,
		Zone:        inc.Zone,
		BranchID:    inc.BranchID,
		BranchName:  inc.BranchName,
		EventDate:   inc.EventDate,
		EventTime:   inc.EventTime,
		Description: inc.Description,
		PhotoPath:   inc.PhotoPath,
	})

	switch {
	case err == nil:
		return doc, true
	case boletin.IsUnknownIncidentType(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipo de siniestro no valido"})
	case boletin.IsTemplateNotFound(err):
		logging.Error("Template missing for incident %d: %v", inc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "plantilla no disponible"})
	default:
		logging.Error("Render failed for incident %d: %v", inc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generando boletin"})
	}
	return "", false
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
