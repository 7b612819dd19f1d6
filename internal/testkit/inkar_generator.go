package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// GeneratorConfig configures the synthetic INKAR table generator
type GeneratorConfig struct {
	Regions      int      `json:"regions"`
	Years        []int    `json:"years"`
	Variables    []string `json:"variables"`
	Artifacts    int      `json:"artifacts"`     // blank placeholder columns appended
	MissingRate  float64  `json:"missing_rate"`  // share of value cells written as "."
	UnmappedCols int      `json:"unmapped_cols"` // value columns whose metadata cell is blank
	Seed         int64    `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for table generation
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Regions:   20,
		Years:     []int{2019, 2020, 2021, 2022, 2023},
		Variables: []string{"Arbeitslosenquote", "Arbeitslosenquote Jüngere"},
		Artifacts: 1,
		Seed:      42,
	}
}

// Generator produces deterministic wide tables in the INKAR layout: one
// column block per variable, one column per year inside each block.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a new generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table
func (g *Generator) Generate() *WideTable {
	cfg := g.config
	w := &WideTable{
		Header: []string{"Kennziffer", "Raumeinheit"},
		Years:  []string{"", ""},
	}
	for _, v := range cfg.Variables {
		for _, y := range cfg.Years {
			w.Header = append(w.Header, v)
			w.Years = append(w.Years, strconv.Itoa(y))
		}
	}
	for i := 0; i < cfg.UnmappedCols; i++ {
		w.Header = append(w.Header, fmt.Sprintf("Bemerkung %d", i+1))
		w.Years = append(w.Years, "")
	}
	for i := 0; i < cfg.Artifacts; i++ {
		w.Header = append(w.Header, "")
		w.Years = append(w.Years, "")
	}

	for r := 0; r < cfg.Regions; r++ {
		row := []string{fmt.Sprintf("%05d", 1001+r), fmt.Sprintf("Region %02d", r+1)}
		base := 2 + g.rng.Float64()*8
		for vi := range cfg.Variables {
			level := base * (1 + 0.3*float64(vi))
			for range cfg.Years {
				if g.rng.Float64() < cfg.MissingRate {
					row = append(row, ".")
					continue
				}
				v := level + g.rng.NormFloat64()*0.4
				row = append(row, germanFloat(v))
			}
		}
		for i := 0; i < cfg.UnmappedCols; i++ {
			row = append(row, "x")
		}
		for i := 0; i < cfg.Artifacts; i++ {
			row = append(row, "")
		}
		w.Rows = append(w.Rows, row)
	}
	return w
}

// ValueColumns is the number of columns that carry a year
func (g *Generator) ValueColumns() int {
	return len(g.config.Variables) * len(g.config.Years)
}

func germanFloat(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1)
}
