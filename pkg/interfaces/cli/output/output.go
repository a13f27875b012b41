// Package output renders a solved planning run for a human or another
// program, grounded on the teacher's output.Generate (format switch over
// text/json, writing to stdout or an output directory) but narrowed to the
// two formats the distribution planner needs: a human-readable summary table
// and the raw validated JSON document (spec.md §6 Non-goals excludes CSV/SVG
// report generation).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/breadnet/planner/pkg/application/dto"
)

// Config holds configuration for rendering a solved run.
type Config struct {
	Format    string // "text" or "json"
	OutputDir string // empty writes to stdout
}

// Generate renders sol in the requested format.
func Generate(sol *dto.OptimizationSolution, cfg Config) error {
	switch cfg.Format {
	case "", "text":
		return generateText(sol, cfg, os.Stdout)
	case "json":
		return generateJSON(sol, cfg)
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

func generateText(sol *dto.OptimizationSolution, cfg Config, w io.Writer) error {
	fmt.Fprintf(w, "Planning run %s\n", sol.RunID)
	fmt.Fprintf(w, "================\n\n")
	fmt.Fprintf(w, "Status: %s\n", sol.Status)
	fmt.Fprintf(w, "Horizon: %s to %s\n", sol.HorizonStart.Format("2006-01-02"), sol.HorizonEnd.Format("2006-01-02"))
	fmt.Fprintf(w, "MIP gap: %.4f\n", sol.MIPGap)
	fmt.Fprintf(w, "Wall time: %dms\n\n", sol.WallTimeMs)

	fmt.Fprintf(w, "Production: %d entries\n", len(sol.Production))
	fmt.Fprintf(w, "Shipments: %d entries\n", len(sol.Shipments))
	if len(sol.Shortages) > 0 {
		fmt.Fprintf(w, "Shortages: %d entries\n", len(sol.Shortages))
		for _, s := range sol.Shortages {
			fmt.Fprintf(w, "  %s %s on %s: %d units short\n", s.Node, s.Product, s.Date.Format("2006-01-02"), s.Units)
		}
	} else {
		fmt.Fprintf(w, "Shortages: none\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Cost breakdown:\n")
	fmt.Fprintf(w, "  Production: %.2f\n", sol.Cost.Production)
	fmt.Fprintf(w, "  Holding:    %.2f\n", sol.Cost.Holding)
	fmt.Fprintf(w, "  Transport:  %.2f\n", sol.Cost.Transport)
	fmt.Fprintf(w, "  Labor:      %.2f\n", sol.Cost.Labor)
	fmt.Fprintf(w, "  Changeover: %.2f\n", sol.Cost.Changeover)
	fmt.Fprintf(w, "  Shortage:   %.2f\n", sol.Cost.Shortage)
	fmt.Fprintf(w, "  Disposal:   %.2f\n", sol.Cost.Disposal)
	fmt.Fprintf(w, "  Total:      %.2f\n", sol.Cost.Total)

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, "summary.txt")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		defer file.Close()
		return generateText(sol, Config{}, file)
	}
	return nil
}

func generateJSON(sol *dto.OptimizationSolution, cfg Config) error {
	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}

	if cfg.OutputDir == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, "solution.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}
