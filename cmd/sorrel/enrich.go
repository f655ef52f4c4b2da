package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/sorrel/pkg/batch"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

func enrichCmd(envFile *string) *cobra.Command {
	var (
		output    string
		priorDir  string
		failEarly bool
	)

	cmd := &cobra.Command{
		Use:   "enrich <transcript.json>...",
		Short: "Enrich transcript files",
		Long: `Enrich transcript files with the configured registry.

Each file holds one transcript object or an array of transcripts. Results
are written as JSON to stdout, or one <id>.json per document into --output.

Example:
  sorrel enrich letters/*.json --output enriched/
  sorrel enrich letter.json --prior enriched/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}

			var transcripts []*models.Transcript
			for _, path := range args {
				loaded, err := readTranscripts(path)
				if err != nil {
					return err
				}
				transcripts = append(transcripts, loaded...)
			}

			if priorDir != "" {
				if err := attachPriors(transcripts, priorDir); err != nil {
					return err
				}
			}

			a.registerPipeline()
			if err := a.start(cmd.Context()); err != nil {
				a.stop()
				return err
			}
			defer a.stop()

			outcomes := a.runner.Run(cmd.Context(), "file", transcripts)
			if err := writeOutcomes(outcomes, output); err != nil {
				return err
			}

			printSummary(batch.Summarize(outcomes))
			if failEarly {
				for _, o := range outcomes {
					if o.Failed() {
						return fmt.Errorf("document %q failed: %s", o.DocumentID, o.Error)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for one <id>.json per document")
	cmd.Flags().StringVar(&priorDir, "prior", "", "directory of earlier <id>.json records to enrich incrementally")
	cmd.Flags().BoolVar(&failEarly, "strict", false, "exit non-zero when any document fails")
	return cmd
}

func readTranscripts(path string) ([]*models.Transcript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []*models.Transcript
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return list, nil
	}

	var t models.Transcript
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if t.ID == "" {
		t.ID = trimExt(filepath.Base(path))
	}
	return []*models.Transcript{&t}, nil
}

// attachPriors loads <dir>/<id>.json as the prior record of every transcript
// that has none
func attachPriors(transcripts []*models.Transcript, dir string) error {
	for _, t := range transcripts {
		if t == nil || t.Prior != nil || t.ID == "" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, t.ID+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read prior record of %s: %w", t.ID, err)
		}

		var stored struct {
			Document *models.Document `json:"document"`
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to parse prior record of %s: %w", t.ID, err)
		}
		t.Prior = stored.Document
	}
	return nil
}

func writeOutcomes(outcomes []batch.Outcome, dir string) error {
	if dir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, o := range outcomes {
		if o.Failed() || o.DocumentID == "" {
			continue
		}
		data, err := json.MarshalIndent(o.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", o.DocumentID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, o.DocumentID+".json"), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.DocumentID, err)
		}
	}
	return nil
}

func printSummary(s batch.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(os.Stderr, "%d documents: %s valid, %s invalid, %s failed, %d review items\n",
		s.Total, green(s.Valid), yellow(s.Invalid), red(s.Failed), s.Review)
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
