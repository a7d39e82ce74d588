/*
Copyright © 2026 the RSVCEA authors.
This file is part of RSVCEA.

RSVCEA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RSVCEA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RSVCEA.  If not, see <http://www.gnu.org/licenses/>.
*/

package rsvceautil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/healthmodel/rsvcea"
)

// readCSV reads a whole CSV file including the header row.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	Cfg.Set("OutputDir", dir)
	Cfg.Set("AgeGroupFile", "")
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(dir, "deterministic.csv"))
	if len(rows) != 4 { // header + three strategies
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	want := []string{rsvcea.StrategyBaseline, rsvcea.StrategyNirsevimab, rsvcea.StrategyVaccine}
	for i, name := range want {
		if rows[i+1][0] != name {
			t.Errorf("row %d: strategy %q != %q", i+1, rows[i+1][0], name)
		}
	}

	rows = readCSV(t, filepath.Join(dir, "icer.csv"))
	if len(rows) != 3 { // header + one comparison per perspective
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, pe := range rsvcea.Perspectives {
		if rows[i+1][0] != pe.String() {
			t.Errorf("row %d: perspective %q != %q", i+1, rows[i+1][0], pe)
		}
	}
}

func TestPSAPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("PSA pipeline test in short mode")
	}
	dir := t.TempDir()
	const iterations = 200
	Cfg.Set("OutputDir", dir)
	Cfg.Set("AgeGroupFile", "")
	Cfg.Set("PSA.Iterations", iterations)
	Cfg.Set("PSA.Seed", 42)
	Cfg.Set("PSA.Workers", 2)
	Cfg.Set("CEAC.Points", 50)

	Root.SetArgs([]string{"psa"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, pe := range rsvcea.Perspectives {
		rows := readCSV(t, filepath.Join(dir, "psa", psaFile(pe)))
		if len(rows) != iterations+1 {
			t.Fatalf("%v: got %d rows, want %d", pe, len(rows), iterations+1)
		}
		if rows[0][0] != "incremental_cost" || rows[0][1] != "incremental_dalys" {
			t.Errorf("%v: unexpected leading columns %v", pe, rows[0][:2])
		}
	}

	Root.SetArgs([]string{"ceac"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, pe := range rsvcea.Perspectives {
		rows := readCSV(t, filepath.Join(dir, "ceac", ceacFile(pe)))
		if len(rows) != 51 {
			t.Fatalf("%v: got %d curve rows, want 51", pe, len(rows))
		}
	}

	Root.SetArgs([]string{"plot", "plane"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	Root.SetArgs([]string{"plot", "ceac"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, pe := range rsvcea.Perspectives {
		for _, name := range []string{"ce_plane_" + pe.String() + ".png", "ceac_" + pe.String() + ".png"} {
			info, err := os.Stat(filepath.Join(dir, "plots", name))
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Errorf("%s is empty", name)
			}
		}
	}
}

func TestCEACWithoutPSA(t *testing.T) {
	Cfg.Set("OutputDir", t.TempDir())
	Root.SetArgs([]string{"ceac"})
	if err := Root.Execute(); err == nil {
		t.Fatal("expected an error when the PSA tables are missing")
	}
}

func TestIterationRoundTrip(t *testing.T) {
	dir := t.TempDir()
	Cfg.Set("AgeGroupFile", "")
	Cfg.Set("OutputDir", dir)
	Cfg.Set("PSA.Iterations", 20)
	Cfg.Set("PSA.Workers", 1)
	Root.SetArgs([]string{"psa"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, pe := range rsvcea.Perspectives {
		path := filepath.Join(dir, "psa", psaFile(pe))
		records, err := readIterations(path, pe)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 20 {
			t.Fatalf("%v: got %d records, want 20", pe, len(records))
		}
		for _, r := range records {
			if r.IncrementalCost(pe) == 0 && r.DALYsAverted == 0 {
				t.Errorf("%v: iteration %d reads as all zeros", pe, r.Iteration)
			}
		}
	}
}
