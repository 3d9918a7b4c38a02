package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"curator/internal/batch"
	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/tier"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var recordsPath string
	var outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify [files...]",
		Short: "Classify files and write a manifest of destinations",
		Long: `Classify runs every file through the decision pipeline and writes
manifest.csv, manifest.json, and stats.json to the output directory.

Files are given as names or paths. Structured records can be supplied as
JSON lines with --records (use - for stdin). Nothing is moved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && strings.TrimSpace(recordsPath) == "" {
				return errors.New("provide file names or --records")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target, err := resolveOutputDir(cfg, outputDir)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withEnvironment(runCtx, func(env *batch.Environment, logger *slog.Logger) error {
				inputs := batch.InputsFromNames(env.Parser, args)
				if path := strings.TrimSpace(recordsPath); path != "" {
					records, err := readRecordsFrom(cmd.InOrStdin(), path)
					if err != nil {
						return err
					}
					inputs = append(inputs, records...)
				}

				manifest, runErr := batch.NewRunner(env, logger).Run(runCtx, inputs)
				if manifest == nil {
					return runErr
				}
				paths, err := batch.WriteManifest(target, manifest)
				if err != nil {
					return err
				}
				if jsonOutput {
					if err := writeJSON(cmd, manifest); err != nil {
						return err
					}
				} else {
					printRunSummary(cmd.OutOrStdout(), manifest, paths)
				}
				if runErr != nil && errors.Is(runErr, context.Canceled) {
					return fmt.Errorf("run interrupted after %d files; partial manifest written: %w", manifest.Stats.Total, runErr)
				}
				return runErr
			})
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "JSON-lines file of metadata records (- for stdin)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for manifest files (default: paths.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the manifest as JSON instead of summary tables")
	return cmd
}

func resolveOutputDir(cfg *config.Config, flag string) (string, error) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return cfg.Paths.OutputDir, nil
	}
	return config.ExpandPath(flag)
}

func readRecordsFrom(stdin io.Reader, path string) ([]batch.Input, error) {
	if path == "-" {
		return batch.ReadRecords(stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer file.Close()
	return batch.ReadRecords(file)
}

func printRunSummary(out io.Writer, m *batch.Manifest, paths batch.OutputPaths) {
	fmt.Fprintf(out, "Run %s: %d files classified, %d skipped with errors\n", m.RunID, m.Stats.Total, m.Stats.Errors)
	fmt.Fprintf(out, "Manifest: %s\n", paths.CSV)
	fmt.Fprintln(out)

	tierKeys := make([]string, 0, len(tier.All))
	for _, t := range tier.All {
		tierKeys = append(tierKeys, string(t))
	}
	fmt.Fprintln(out, renderTable("Tiers", []string{"Tier", "Files"}, countRows(tierKeys, m.Stats.Tiers, true), []columnAlignment{alignLeft, alignRight}))

	reasonKeys := make([]string, 0, len(classify.Reasons))
	for _, r := range classify.Reasons {
		reasonKeys = append(reasonKeys, string(r))
	}
	fmt.Fprintln(out, renderTable("Reasons", []string{"Reason", "Files"}, countRows(reasonKeys, m.Stats.Reasons, false), []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintln(out, renderTable("Confidence", []string{"Bucket", "Files"}, countRows(classify.BucketLabels, m.Stats.Confidence, true), []columnAlignment{alignLeft, alignRight}))

	if len(m.CategoryCounts) > 0 {
		rows := make([][]string, 0, len(m.CategoryCounts))
		for _, name := range sortedKeys(m.CategoryCounts) {
			rows = append(rows, []string{name, strconv.Itoa(m.CategoryCounts[name])})
		}
		fmt.Fprintln(out, renderTable("Satellite categories", []string{"Category", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	if len(m.Sources) > 0 {
		rows := make([][]string, 0, len(m.Sources))
		for _, s := range m.Sources {
			rows = append(rows, []string{
				s.Source,
				strconv.FormatInt(s.Hits, 10),
				strconv.FormatInt(s.Misses, 10),
				strconv.FormatInt(s.Failures, 10),
			})
		}
		fmt.Fprintln(out, renderTable("Metadata sources", []string{"Source", "Cache hits", "Fetched", "Failures"}, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
	}
}
