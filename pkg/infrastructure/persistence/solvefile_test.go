package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/breadnet/planner/pkg/application/dto"
)

func TestWriter_Write_ProducesExpectedPath(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	sol := &dto.OptimizationSolution{RunID: "run-1", Status: "OPTIMAL"}
	generatedAt := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	path, err := w.Write(sol, Metadata{SolverName: "highs"}, "plan", 2, generatedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(dir, "2026", "wk03", "plan_20260315_1430.json")
	if path != want {
		t.Errorf("expected path %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back written file: %v", err)
	}
	var doc SolveFile
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to unmarshal written solve-file: %v", err)
	}
	if doc.Solution.RunID != "run-1" {
		t.Errorf("expected round-tripped run id run-1, got %s", doc.Solution.RunID)
	}
}

func TestWriter_Write_RejectsNilSolution(t *testing.T) {
	w := NewWriter(t.TempDir())
	if _, err := w.Write(nil, Metadata{}, "plan", 0, time.Now()); err == nil {
		t.Fatalf("expected an error writing a nil solution")
	}
}

func TestHashInputFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.csv")
	if err := os.WriteFile(path, []byte("id,kind\nMFG,Manufacturing\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	hashes, err := HashInputFiles([]string{path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hashes["nodes.csv"]) != 64 {
		t.Errorf("expected a 64-character hex sha256 digest, got %q", hashes["nodes.csv"])
	}
}
