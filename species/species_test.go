package species

import "testing"

func Test_Lookup_known_and_unknown(tst *testing.T) {
	s, err := Lookup("D")
	if err != nil {
		tst.Fatalf("Lookup(D) failed: %v", err)
	}
	if s.ZIon != 1 || s.Impurity {
		tst.Errorf("D: got ZIon=%g Impurity=%v, want ZIon=1 Impurity=false", s.ZIon, s.Impurity)
	}
	if _, err := Lookup("Xx"); err == nil {
		tst.Errorf("expected an error for an unknown species label")
	}
}

func Test_NonImpurities_and_Impurities_partition(tst *testing.T) {
	table := Table{Electron, Deuteron, Triton, Berylium, Argon}
	nonImp := table.NonImpurities()
	imp := table.Impurities()
	if len(nonImp)+len(imp) != len(table) {
		tst.Fatalf("partition sizes %d+%d != %d", len(nonImp), len(imp), len(table))
	}
	for _, s := range nonImp {
		if s.Impurity {
			tst.Errorf("%s: appeared in NonImpurities but Impurity=true", s.Label)
		}
	}
	for _, s := range imp {
		if !s.Impurity {
			tst.Errorf("%s: appeared in Impurities but Impurity=false", s.Label)
		}
	}
}

func Test_CheckNeutrality(tst *testing.T) {
	table := Table{Electron, Deuteron}
	nE := 1.0e20
	densities := map[string]float64{Electron.Label: nE, Deuteron.Label: nE}
	residual, ok, err := table.CheckNeutrality(densities, nE, 1e-6)
	if err != nil {
		tst.Fatalf("CheckNeutrality failed: %v", err)
	}
	if !ok {
		tst.Errorf("n_e == n_D with z_e=-1, z_D=+1 should be neutral, residual=%g", residual)
	}

	densities[Deuteron.Label] = 1.2 * nE
	residual, ok, err = table.CheckNeutrality(densities, nE, 1e-6)
	if err != nil {
		tst.Fatalf("CheckNeutrality failed: %v", err)
	}
	if ok {
		tst.Errorf("20%% imbalance should fail a 1e-6 tolerance check, residual=%g", residual)
	}

	if _, _, err := table.CheckNeutrality(densities, 0, 1e-6); err == nil {
		tst.Errorf("expected an error for non-positive electron density")
	}
	if _, _, err := table.CheckNeutrality(map[string]float64{Electron.Label: nE}, nE, 1e-6); err == nil {
		tst.Errorf("expected an error for a missing species density")
	}
}
