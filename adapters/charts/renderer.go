// Package charts renders the aggregation bundle as PNG figures.
package charts

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"inkartidy/domain/chart"
	"inkartidy/domain/core"
	"inkartidy/internal"
	"inkartidy/ports"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Fixed file names of the four figures.
const (
	FileLine     = "01_line_jugend_vs_gesamt.png"
	FileHeatmap  = "02_heatmap_jugendquote.png"
	fileHotspots = "03_hotspots_%d_%d.png"
	fileDelta    = "05_delta_%d_%d.png"
)

// HotspotsFile returns the hotspot figure name for a year pair
func HotspotsFile(start, end int) string { return fmt.Sprintf(fileHotspots, start, end) }

// DeltaFile returns the delta figure name for a year pair
func DeltaFile(start, end int) string { return fmt.Sprintf(fileDelta, start, end) }

var (
	// ColorYouth marks the youth series and rising deltas
	ColorYouth = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	// ColorTotal marks the reference series and falling deltas
	ColorTotal = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
)

// Options controls figure output
type Options struct {
	Dir string
	DPI int
}

// Renderer writes PNG charts into a directory
type Renderer struct {
	opts Options
	log  *internal.Logger
}

var _ ports.Presenter = (*Renderer)(nil)

func NewRenderer(opts Options, log *internal.Logger) *Renderer {
	if opts.DPI <= 0 {
		opts.DPI = vgimg.DefaultDPI
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Renderer{opts: opts, log: log}
}

func (r *Renderer) Name() string { return "charts" }

type figure struct {
	name  string
	build func(b chart.Bundle) (*plot.Plot, vg.Length, vg.Length, error)
}

// Present renders every figure. A figure without data is reported as
// skipped; a rendering failure aborts.
func (r *Renderer) Present(ctx context.Context, b chart.Bundle) ([]ports.Export, error) {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create figure directory: %w", err)
	}

	figures := []figure{
		{name: FileLine, build: buildLine},
		{name: FileHeatmap, build: buildHeatmap},
		{name: HotspotsFile(b.StartYear, b.EndYear), build: buildHotspots},
		{name: DeltaFile(b.StartYear, b.EndYear), build: buildDelta},
	}

	exports := make([]ports.Export, 0, len(figures))
	for _, fig := range figures {
		if err := ctx.Err(); err != nil {
			return exports, err
		}

		path := filepath.Join(r.opts.Dir, fig.name)
		p, w, h, err := fig.build(b)
		if core.IsEmptySelection(err) {
			r.log.Warn("[Charts] Skipping %s: %v", fig.name, err)
			exports = append(exports, ports.Export{Name: fig.name, Skipped: err})
			continue
		}
		if err != nil {
			return exports, fmt.Errorf("failed to build %s: %w", fig.name, err)
		}

		if err := r.save(p, w, h, path); err != nil {
			return exports, err
		}
		r.log.Info("[Charts] Wrote %s", path)
		exports = append(exports, ports.Export{Name: fig.name, Path: path})
	}
	return exports, nil
}

func (r *Renderer) save(p *plot.Plot, w, h vg.Length, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.opts.DPI))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
