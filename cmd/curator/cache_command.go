package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/batch"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the metadata lookup caches",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheInvalidateMissesCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries per metadata source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stores, err := batch.OpenCaches(cfg)
			if err != nil {
				return err
			}
			defer batch.CloseCaches(stores)

			out := cmd.OutOrStdout()
			if len(stores) == 0 {
				fmt.Fprintln(out, "No metadata caches found")
				return nil
			}
			rows := make([][]string, 0, len(stores))
			for _, s := range stores {
				counts, err := s.Store.Counts(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s cache: %w", s.Name, err)
				}
				rows = append(rows, []string{
					s.Name,
					strconv.FormatInt(counts.Entries, 10),
					strconv.FormatInt(counts.Misses, 10),
					s.Store.Path(),
				})
			}
			fmt.Fprintln(out, renderTable("", []string{"Source", "Entries", "No result", "Path"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheInvalidateMissesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate-misses [source]",
		Short: "Forget cached \"no result\" lookups so they are retried",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only string
			if len(args) == 1 {
				only = strings.ToLower(strings.TrimSpace(args[0]))
				if !slices.Contains(batch.KnownSources, only) {
					return fmt.Errorf("unknown source %q (expected one of %s)", only, strings.Join(batch.KnownSources, ", "))
				}
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stores, err := batch.OpenCaches(cfg)
			if err != nil {
				return err
			}
			defer batch.CloseCaches(stores)

			out := cmd.OutOrStdout()
			for _, s := range stores {
				if only != "" && s.Name != only {
					continue
				}
				removed, err := s.Store.InvalidateMisses(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s cache: %w", s.Name, err)
				}
				fmt.Fprintf(out, "%s: removed %d cached misses\n", s.Name, removed)
			}
			return nil
		},
	}
}

