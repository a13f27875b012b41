// Package persistence writes solved windows to the on-disk solve-file format
// (spec.md §6.4): UTF-8 JSON under solves/<YYYY>/wk<NN>/, alongside run
// metadata and sha256 hashes of the scenario input files that produced it.
// Grounded on the teacher's events package (pkg/infrastructure/events), which
// is the only other place in the teacher that serializes domain state to a
// durable log — adapted here from an in-memory event store to a file writer,
// since the planner has no event bus to persist against.
package persistence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/breadnet/planner/pkg/application/dto"
)

// Metadata is the run-level provenance recorded alongside every solve-file.
type Metadata struct {
	GitCommit    string            `json:"git_commit"`
	SolverName   string            `json:"solver_name"`
	SolverVersion string           `json:"solver_version"`
	InputHashes  map[string]string `json:"input_file_hashes"`
}

// SolveFile is the full persisted document: the validated solution plus
// provenance metadata (spec.md §6.4).
type SolveFile struct {
	Solution *dto.OptimizationSolution `json:"solution"`
	Metadata Metadata                  `json:"metadata"`
}

// Writer persists solve-files under a root directory.
type Writer struct {
	Root string
}

// NewWriter constructs a Writer rooted at dir (typically "solves").
func NewWriter(dir string) *Writer {
	return &Writer{Root: dir}
}

// Write serializes sol and metadata to
// <root>/<YYYY>/wk<NN>/<runType>_<YYYYMMDD>_<HHMM>.json and returns the path
// written. windowIndex is zero-based; the persisted path uses a 1-based
// "wkNN" label to match how operators refer to windows.
func (w *Writer) Write(sol *dto.OptimizationSolution, meta Metadata, runType string, windowIndex int, generatedAt time.Time) (string, error) {
	if sol == nil {
		return "", fmt.Errorf("persistence: cannot write a nil solution")
	}

	year := generatedAt.Year()
	dir := filepath.Join(w.Root, fmt.Sprintf("%04d", year), fmt.Sprintf("wk%02d", windowIndex+1))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("persistence: failed to create solve directory %s: %w", dir, err)
	}

	filename := fmt.Sprintf("%s_%s_%s.json", runType, generatedAt.Format("20060102"), generatedAt.Format("1504"))
	path := filepath.Join(dir, filename)

	doc := SolveFile{Solution: sol, Metadata: meta}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("persistence: failed to marshal solve-file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("persistence: failed to write solve-file %s: %w", path, err)
	}
	return path, nil
}

// HashInputFiles computes a sha256 hex digest for every named input file, so
// a persisted solve-file can be traced back to the exact scenario inputs
// that produced it (spec.md §6.4 "input-file hashes").
func HashInputFiles(paths []string) (map[string]string, error) {
	hashes := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("persistence: failed to hash input file %s: %w", p, err)
		}
		sum := sha256.Sum256(data)
		hashes[filepath.Base(p)] = hex.EncodeToString(sum[:])
	}
	return hashes, nil
}

// GitCommit returns the short commit hash of the repository HEAD, or
// "unknown" if the planner is not running from within a git checkout.
func GitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
