package coreprofiles

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const csvFixture = `rho_tor_norm,n_e,t_e,t_i,n_d,n_t,j_total,j_bootstrap,j_ohmic,j_nb,j_rf,p_aux,p_rad,q_exchange
0.0,5e19,8000,7500,2.5e19,2.5e19,1.2e6,1e5,1e6,5e4,5e4,2e5,1e4,0
0.5,4e19,5000,4800,2e19,2e19,1.0e6,8e4,9e5,4e4,4e4,1.8e5,9e3,0
0.8,3e19,3000,2900,1.5e19,1.5e19,7e5,6e4,6e5,3e4,3e4,1.2e5,7e3,0
1.0,1e19,500,480,5e18,5e18,2e5,2e4,1.5e5,1e4,1e4,3e4,2e3,0
`

func Test_LoadScenario_csv_round_trip(tst *testing.T) {
	dir := tst.TempDir()
	path := filepath.Join(dir, "scenario.csv")
	if err := os.WriteFile(path, []byte(csvFixture), 0644); err != nil {
		tst.Fatalf("writing fixture: %v", err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		tst.Fatalf("LoadScenario failed: %v", err)
	}
	sc.Sort()
	if len(sc.Rows) != 4 {
		tst.Fatalf("got %d rows, want 4", len(sc.Rows))
	}
	ne, err := sc.NeProfile()
	if err != nil {
		tst.Fatalf("NeProfile failed: %v", err)
	}
	v, err := ne.Eval(0)
	if err != nil {
		tst.Fatalf("Eval(0) failed: %v", err)
	}
	if math.Abs(v-5e19) > 1e10 {
		tst.Errorf("n_e(0)=%g, want ~5e19", v)
	}
}

func Test_LoadScenario_unsupported_extension(tst *testing.T) {
	dir := tst.TempDir()
	path := filepath.Join(dir, "scenario.txt")
	if err := os.WriteFile(path, []byte(csvFixture), 0644); err != nil {
		tst.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadScenario(path); err == nil {
		tst.Errorf("expected an error for an unsupported extension")
	}
}

func Test_LoadScenario_too_few_rows(tst *testing.T) {
	dir := tst.TempDir()
	path := filepath.Join(dir, "scenario.csv")
	short := "rho_tor_norm,n_e,t_e,t_i,n_d,n_t,j_total,j_bootstrap,j_ohmic,j_nb,j_rf,p_aux,p_rad,q_exchange\n0.0,5e19,8000,7500,2.5e19,2.5e19,0,0,0,0,0,0,0,0\n"
	if err := os.WriteFile(path, []byte(short), 0644); err != nil {
		tst.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadScenario(path); err == nil {
		tst.Errorf("expected an error for fewer than 4 rows")
	}
}
