package coreprofiles

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/cpmech/tokasim/fun1d"
)

// ScenarioRow is one radial node of a tabulated scenario (spec §6:
// "1-D profiles indexed by a normalized radius"). Row-oriented so the same
// struct doubles as both the JSON/YAML record shape and the gocsv record
// shape for tabulated-spreadsheet ingestion [NEW, SPEC_FULL §13].
type ScenarioRow struct {
	RhoTorNorm float64 `json:"rho_tor_norm" yaml:"rho_tor_norm" csv:"rho_tor_norm"`
	Ne         float64 `json:"n_e" yaml:"n_e" csv:"n_e"`
	Te         float64 `json:"t_e" yaml:"t_e" csv:"t_e"`
	Ti         float64 `json:"t_i" yaml:"t_i" csv:"t_i"`
	ND         float64 `json:"n_d" yaml:"n_d" csv:"n_d"`
	NT         float64 `json:"n_t" yaml:"n_t" csv:"n_t"`
	JTotal     float64 `json:"j_total" yaml:"j_total" csv:"j_total"`
	JBootstrap float64 `json:"j_bootstrap" yaml:"j_bootstrap" csv:"j_bootstrap"`
	JOhmic     float64 `json:"j_ohmic" yaml:"j_ohmic" csv:"j_ohmic"`
	JNB        float64 `json:"j_nb" yaml:"j_nb" csv:"j_nb"`
	JRF        float64 `json:"j_rf" yaml:"j_rf" csv:"j_rf"`
	Paux       float64 `json:"p_aux" yaml:"p_aux" csv:"p_aux"`
	Prad       float64 `json:"p_rad" yaml:"p_rad" csv:"p_rad"`
	QExchange  float64 `json:"q_exchange" yaml:"q_exchange" csv:"q_exchange"`
}

// Scenario is a tabulated scenario loaded from JSON, YAML or CSV (spec §6
// "Scenario tables"), indexed by RhoTorNorm. Rows is kept in file order;
// call Sort before building profiles from an unsorted table.
type Scenario struct {
	Rows []ScenarioRow
}

// LoadScenario reads a scenario table from path, dispatching on extension:
// .json -> encoding/json, .yaml/.yml -> gopkg.in/yaml.v3, .csv -> gocsv
// (mirrors fytok's load_scenario.py dual JSON/YAML/tabular ingestion path,
// SPEC_FULL.md §13).
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("coreprofiles: LoadScenario: reading %s: %v", path, err)
	}
	var rows []ScenarioRow
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, chk.Err("coreprofiles: LoadScenario: parsing JSON %s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, chk.Err("coreprofiles: LoadScenario: parsing YAML %s: %v", path, err)
		}
	case ".csv":
		if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
			return nil, chk.Err("coreprofiles: LoadScenario: parsing CSV %s: %v", path, err)
		}
	default:
		return nil, chk.Err("coreprofiles: LoadScenario: unsupported scenario file extension %q (want .json, .yaml/.yml, or .csv)", ext)
	}
	if len(rows) < 4 {
		return nil, chk.Err("coreprofiles: LoadScenario: %s has %d rows, need at least 4 to build a Function1D profile", path, len(rows))
	}
	return &Scenario{Rows: rows}, nil
}

// column extracts one field of ScenarioRow as a Function1D over RhoTorNorm,
// via the supplied accessor, assuming Rows is already sorted ascending by
// RhoTorNorm (ensured by Sort).
func (s *Scenario) column(get func(ScenarioRow) float64) (fun1d.Function1D, error) {
	x := make([]float64, len(s.Rows))
	y := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		x[i] = r.RhoTorNorm
		y[i] = get(r)
	}
	return fun1d.New(x, y)
}

// Sort orders Rows ascending by RhoTorNorm (simple insertion sort; scenario
// tables are small, typically tens to low hundreds of rows).
func (s *Scenario) Sort() {
	for i := 1; i < len(s.Rows); i++ {
		for j := i; j > 0 && s.Rows[j].RhoTorNorm < s.Rows[j-1].RhoTorNorm; j-- {
			s.Rows[j], s.Rows[j-1] = s.Rows[j-1], s.Rows[j]
		}
	}
}

// NeProfile, TeProfile, TiProfile, NDProfile, NTProfile return the
// corresponding column as a Function1D.
func (s *Scenario) NeProfile() (fun1d.Function1D, error) { return s.column(func(r ScenarioRow) float64 { return r.Ne }) }
func (s *Scenario) TeProfile() (fun1d.Function1D, error) { return s.column(func(r ScenarioRow) float64 { return r.Te }) }
func (s *Scenario) TiProfile() (fun1d.Function1D, error) { return s.column(func(r ScenarioRow) float64 { return r.Ti }) }
func (s *Scenario) NDProfile() (fun1d.Function1D, error) { return s.column(func(r ScenarioRow) float64 { return r.ND }) }
func (s *Scenario) NTProfile() (fun1d.Function1D, error) { return s.column(func(r ScenarioRow) float64 { return r.NT }) }

// JTotalProfile, PradProfile etc. expose the remaining source columns
// needed to seed a coresources.Source from a scenario table.
func (s *Scenario) JTotalProfile() (fun1d.Function1D, error) {
	return s.column(func(r ScenarioRow) float64 { return r.JTotal })
}
func (s *Scenario) PauxProfile() (fun1d.Function1D, error) {
	return s.column(func(r ScenarioRow) float64 { return r.Paux })
}
func (s *Scenario) PradProfile() (fun1d.Function1D, error) {
	return s.column(func(r ScenarioRow) float64 { return r.Prad })
}
func (s *Scenario) QExchangeProfile() (fun1d.Function1D, error) {
	return s.column(func(r ScenarioRow) float64 { return r.QExchange })
}
