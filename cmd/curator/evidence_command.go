package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/batch"
	"curator/internal/category"
	"curator/internal/classify"
	"curator/internal/language"
	"curator/internal/services"
)

func newEvidenceCommand(ctx *commandContext) *cobra.Command {
	var year int
	var director string
	var country string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "evidence <filename|title>",
		Short: "Explain how one film would be classified",
		Long: `Evidence runs the pipeline in diagnostic mode and prints every stage
outcome, the gate table for each Satellite category, and the nearest miss.
Category counts and run statistics are not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnvironment(cmd.Context(), func(env *batch.Environment, _ *slog.Logger) error {
				rec := env.Parser.Parse(args[0])
				if year > 0 {
					rec.Year = year
				}
				if v := strings.TrimSpace(director); v != "" {
					rec.Director = v
				}
				if v := strings.TrimSpace(country); v != "" {
					rec.Country = strings.ToUpper(v)
				}
				runCtx := services.WithStage(cmd.Context(), "evidence")
				result := env.Engine.Evidence(runCtx, rec)
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				printEvidence(out, result, env.Rules.Caps(), shouldColorize(out))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Override the release year")
	cmd.Flags().StringVar(&director, "director", "", "Override the director")
	cmd.Flags().StringVar(&country, "country", "", "Override the production country (ISO code)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the evidence as JSON")
	return cmd
}

func printEvidence(out io.Writer, result classify.Result, caps map[string]int, colorize bool) {
	fmt.Fprintf(out, "File:        %s\n", result.Filename)
	title := result.Title
	if result.Year > 0 {
		title = fmt.Sprintf("%s (%d)", title, result.Year)
	}
	fmt.Fprintf(out, "Film:        %s\n", title)
	if result.Director != "" {
		fmt.Fprintf(out, "Director:    %s\n", result.Director)
	}
	if result.Country != "" {
		fmt.Fprintf(out, "Country:     %s\n", result.Country)
	}
	if result.Language != "" {
		fmt.Fprintf(out, "Language:    %s\n", language.DisplayName(result.Language))
	}
	fmt.Fprintf(out, "Destination: %s\n", result.Destination)
	fmt.Fprintf(out, "Reason:      %s (confidence %.2f)\n", result.Reason, result.Confidence)

	ev := result.Evidence
	if ev == nil {
		return
	}
	if ev.Decided != "" {
		fmt.Fprintf(out, "Decided by:  %s\n", ev.Decided)
	}
	if len(ev.EnrichedBy) > 0 {
		fmt.Fprintf(out, "Enriched by: %s\n", strings.Join(ev.EnrichedBy, ", "))
	}
	fmt.Fprintln(out)

	stageRows := make([][]string, 0, len(ev.Stages))
	for _, s := range ev.Stages {
		stageRows = append(stageRows, []string{s.Stage, yesNo(s.Matched), s.Detail})
	}
	fmt.Fprintln(out, renderTable("Stages", []string{"Stage", "Matched", "Detail"}, stageRows, nil))

	trail := ev.Categories
	gateRows := make([][]string, 0, len(trail.Evaluations))
	for _, e := range trail.Evaluations {
		gateRows = append(gateRows, []string{
			e.Category,
			renderGate(e.Decade, colorize),
			renderGate(e.Director, colorize),
			renderGate(e.Country, colorize),
			renderGate(e.Genre, colorize),
			evidenceTerms(e),
			string(e.Route),
			capLabel(trail.Counts[e.Category], caps[e.Category]),
		})
	}
	fmt.Fprintln(out, renderTable("Satellite categories",
		[]string{"Category", "Decade", "Director", "Country", "Genre", "Keywords", "Route", "Count"},
		gateRows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))

	switch {
	case trail.CapBlocked:
		fmt.Fprintf(out, "Matches %s, but the category is at its cap\n", firstMatched(trail))
	case trail.WouldMatch != "":
		fmt.Fprintf(out, "Would match %s\n", trail.WouldMatch)
	case trail.NearestMiss != "":
		fmt.Fprintf(out, "No category matched; nearest miss: %s\n", trail.NearestMiss)
	default:
		fmt.Fprintln(out, "No category matched")
	}

	m := ev.Mainstream
	switch {
	case m.NoYear:
		fmt.Fprintln(out, "Mainstream: not evaluated (no year)")
	case m.Excluded != "":
		fmt.Fprintf(out, "Mainstream: excluded by %q\n", m.Excluded)
	default:
		fmt.Fprintf(out, "Mainstream: %s (country %s, genre %s, strong %s, cast %s, popular %s)\n",
			yesNo(m.Mainstream), yesNo(m.Country), yesNo(m.Genre), yesNo(m.Strong), yesNo(m.Cast), yesNo(m.Popular))
	}
}

func evidenceTerms(e category.Evaluation) string {
	terms := append(append([]string{}, e.MatchedTags...), e.MatchedTerms...)
	if len(terms) == 0 {
		return ""
	}
	label := strings.Join(terms, ", ")
	if e.Substituted {
		label += " (substitutes genre)"
	}
	return label
}

func firstMatched(trail category.Trail) string {
	for _, e := range trail.Evaluations {
		if e.Matched {
			return e.Category
		}
	}
	return ""
}

func capLabel(count, limit int) string {
	if limit <= 0 {
		return strconv.Itoa(count)
	}
	return fmt.Sprintf("%d/%d", count, limit)
}
