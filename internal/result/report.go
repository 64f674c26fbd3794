package result

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const maxInfoWidth = 60

// Complete writes the JSON report to reportPath (skipped when empty),
// prints the summary table to w and returns ErrJobFailed unless the job succeeded.
func (r *Result) Complete(ctx context.Context, w io.Writer, reportPath string) error {
	if reportPath != "" {
		if err := r.WriteReport(reportPath); err != nil {
			return err
		}
		clog.InfoContextf(ctx, "[Result] Report written to %s", reportPath)
	}

	if err := r.RenderSummary(w); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	if !r.IsOK() {
		if failed := r.FirstFailure(); failed != nil {
			return fmt.Errorf("%w: step %q: %s", ErrJobFailed, failed.Name, failed.Status)
		}
		return fmt.Errorf("%w: %s", ErrJobFailed, r.Status)
	}
	return nil
}

// WriteReport writes the result as indented JSON, creating parent directories
func (r *Result) WriteReport(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// RenderSummary prints one markdown table row per step plus the job row
func (r *Result) RenderSummary(w io.Writer) error {
	table := newSummaryTable([]string{"Step", "Status", "Duration", "Info"}, w)
	for _, step := range r.Results {
		_ = table.Append([]string{step.Name, string(step.Status), formatSeconds(step.Duration), summarize(step.Info)})
	}
	_ = table.Append([]string{r.Name, string(r.Status), formatSeconds(r.Duration), summarize(r.Info)})
	return table.Render()
}

func newSummaryTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1fs", s)
}

// summarize keeps the last line of info, which carries the failure reason
func summarize(info string) string {
	info = strings.TrimSpace(info)
	if i := strings.LastIndex(info, "\n"); i >= 0 {
		info = info[i+1:]
	}
	info = strings.ReplaceAll(info, "|", "\\|")
	if len(info) > maxInfoWidth {
		return info[:maxInfoWidth-3] + "..."
	}
	return info
}
