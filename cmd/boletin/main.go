package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/siniestros/boletin"
	"github.com/siniestros/boletin/pkg/api"
	"github.com/siniestros/boletin/pkg/render"
)

const (
	checkmark = "✓"
	crossmark = "✗"
)

func main() {
	boletin.SetLogLevel("warning")

	app := kingpin.New("boletin", "Incident bulletin generator")
	app.HelpFlag.Short('h')

	var (
		templateDir = app.Flag("templates", "Template directory").Default("Boletin").String()
		photoDir    = app.Flag("fotos", "Photo base directory").Default("Boletin/imagenesSiniestros").String()
	)

	rnd := app.Command("render", "Render a bulletin to PDF and/or PNG")
	var (
		tipo    = rnd.Flag("tipo", "Incident type").Required().String()
		zona    = rnd.Flag("zona", "Zone name").String()
		centro  = rnd.Flag("idcentro", "Branch ID").String()
		suc     = rnd.Flag("sucursal", "Branch name").String()
		fecha   = rnd.Flag("fecha", "Event date").String()
		hora    = rnd.Flag("hora", "Event time").String()
		descr   = rnd.Flag("descripcion", "Description").String()
		foto    = rnd.Flag("foto", "Photo path").String()
		formato = rnd.Flag("formato", "Output format").Default("ambos").Enum("pdf", "png", "ambos")
		outDir  = rnd.Flag("output", "Output directory").Short('o').Default(".").String()
	)

	app.Command("templates", "Show template resolution per incident type")

	serve := app.Command("serve", "Run the bulletin HTTP server")
	var (
		addr = serve.Flag("addr", "Listen address").Default(":8000").String()
		data = serve.Flag("data", "JSON file with incident records").Required().String()
	)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg := boletin.Config{
		TemplateDir: *templateDir,
		PhotoDir:    *photoDir,
	}

	var err error
	switch command {
	case "render":
		b := boletin.Bulletin{
			Type:        *tipo,
			Zone:        *zona,
			BranchID:    *centro,
			BranchName:  *suc,
			EventDate:   *fecha,
			EventTime:   *hora,
			Description: *descr,
			PhotoPath:   *foto,
		}
		err = doRender(cfg, b, *formato, *outDir)
	case "templates":
		err = doTemplates(cfg)
	case "serve":
		err = doServe(cfg, *addr, *data)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func doRender(cfg boletin.Config, b boletin.Bulletin, formato, outDir string) error {
	r := boletin.NewRenderer(cfg)
	doc, err := r.Render(b)
	if err != nil {
		return err
	}

	ras := render.Rasterizer{TempDir: cfg.TempDir}

	var group errgroup.Group
	if formato == "pdf" || formato == "ambos" {
		group.Go(func() error {
			data, err := ras.ToPDF(doc)
			if err != nil {
				return err
			}
			return writeOutput(outDir, "boletin.pdf", data)
		})
	}
	if formato == "png" || formato == "ambos" {
		group.Go(func() error {
			data, err := ras.ToPNG(doc, 0, 0)
			if err != nil {
				return err
			}
			return writeOutput(outDir, "boletin.png", data)
		})
	}

	return group.Wait()
}

func writeOutput(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return err
	}
	fmt.Printf("%v %v\n", checkmark, path)
	return nil
}

func doTemplates(cfg boletin.Config) error {
	r := boletin.NewRenderer(cfg)

	for _, tipo := range boletin.IncidentTypes() {
		path, err := r.Resolve(tipo)
		if err != nil {
			fmt.Printf("%v %-12v (no template)\n", crossmark, tipo)
			continue
		}
		fmt.Printf("%v %-12v %v\n", checkmark, tipo, path)
	}

	return nil
}

// fileSource serves incident records from a JSON file, standing in for
// the external data layer.
type fileSource struct {
	incidents map[int]api.Incident
}

func newFileSource(path string) (*fileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []api.Incident
	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, boletin.Wrap(err, "failed to parse incident data %v", path)
	}

	src := &fileSource{incidents: make(map[int]api.Incident)}
	for _, rec := range records {
		src.incidents[rec.ID] = rec
	}
	return src, nil
}

func (f *fileSource) Incident(id int) (api.Incident, error) {
	inc, ok := f.incidents[id]
	if !ok {
		return api.Incident{}, fmt.Errorf("no incident with id %d", id)
	}
	return inc, nil
}

func doServe(cfg boletin.Config, addr, dataPath string) error {
	src, err := newFileSource(dataPath)
	if err != nil {
		return err
	}

	srv := api.NewServer(src, cfg)
	return srv.Run(addr)
}
