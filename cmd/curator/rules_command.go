package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"curator/internal/rules"
	"curator/internal/tier"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Satellite category routing rules",
	}
	rulesCmd.AddCommand(newRulesListCommand(ctx))
	rulesCmd.AddCommand(newRulesDefaultsCommand())
	return rulesCmd
}

func newRulesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rs, err := rules.Load(cfg.Paths.RulesFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(rs.Categories))
			for i, c := range rs.Categories {
				limit := "unlimited"
				if c.Cap > 0 {
					limit = strconv.Itoa(c.Cap)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					c.Name,
					decadeList(c.Decades),
					setList(c.Countries),
					setList(c.Genres),
					limit,
					yesNo(c.Movement),
				})
			}
			title := "Categories (" + rs.Source + ")"
			fmt.Fprintln(out, renderTable(title, []string{"#", "Category", "Decades", "Countries", "Genres", "Cap", "Movement"}, rows,
				[]columnAlignment{alignRight}))

			if len(rs.Waves) > 0 {
				waveRows := make([][]string, 0, len(rs.Waves))
				for _, w := range rs.Waves {
					waveRows = append(waveRows, []string{w.Country, decadeList(w.Decades), w.Category})
				}
				fmt.Fprintln(out, renderTable("Waves", []string{"Country", "Decades", "Category"}, waveRows, nil))
			}
			return nil
		},
	}
}

func newRulesDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "defaults",
		Short:       "Print the built-in rules document",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(rules.DefaultDocument())
			return err
		},
	}
}

func decadeList(decades mapset.Set[int]) string {
	if decades == nil || decades.Cardinality() == 0 {
		return "any"
	}
	values := decades.ToSlice()
	slices.Sort(values)
	labels := make([]string, 0, len(values))
	for _, d := range values {
		labels = append(labels, tier.DecadeLabel(d))
	}
	return strings.Join(labels, ", ")
}

func setList(values mapset.Set[string]) string {
	if values == nil || values.Cardinality() == 0 {
		return "any"
	}
	items := values.ToSlice()
	slices.Sort(items)
	return strings.Join(items, ", ")
}
