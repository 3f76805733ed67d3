package tags

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/davenportd/scribe/internal/cache"
	"github.com/davenportd/scribe/internal/state"
	"github.com/davenportd/scribe/internal/tagsource"
)

var limit int

func NewCmdTags(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"t"},
		Short:   "Inspect and manage the global tag index.",
		Long: heredoc.Doc(`
			The tag index is cached process-wide and persisted between runs.
			These subcommands read the cache, force refreshes, and inspect
			its tiers.
		`),
		RunE: newCmdList(s).RunE,
	}

	cmd.PersistentFlags().IntVarP(&limit, "limit", "l", 25, "Maximum rows to show.")

	cmd.AddCommand(
		newCmdList(s),
		newCmdSuggest(s),
		newCmdRelated(s),
		newCmdStats(s),
		newCmdRefresh(s),
		newCmdCleanup(s),
		newCmdClear(s),
	)

	return cmd
}

func newCmdList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List the most used tags, optionally filtered.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Tags.Get(cmd.Context(), false)

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			matches := s.Tags.FilterTags(query, limit)
			if len(matches) == 0 {
				fmt.Println("No tags found.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Tag", "Count"})
			for _, tc := range matches {
				table.Append([]string{tc.Tag, strconv.Itoa(tc.Count)})
			}
			table.Render()
			return nil
		},
	}
}

func newCmdSuggest(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Show autocomplete suggestions for a tag prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Tags.Get(cmd.Context(), false)

			for _, tc := range s.Tags.SuggestTags(args[0], limit) {
				fmt.Printf("@%s (%d)\n", tc.Tag, tc.Count)
			}
			return nil
		},
	}
}

func newCmdRelated(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "related <tag>",
		Short: "Show tags that co-occur with the given tag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := s.Tags.Get(cmd.Context(), false)

			// Snapshot tags are normalized to lowercase by the scanner.
			tag := strings.ToLower(strings.TrimPrefix(args[0], "@"))
			shown := 0
			for _, rel := range snap.Relations {
				if shown >= limit {
					break
				}
				switch tag {
				case rel.Source:
					fmt.Printf("@%s (strength %.0f)\n", rel.Target, rel.Strength)
					shown++
				case rel.Target:
					fmt.Printf("@%s (strength %.0f)\n", rel.Source, rel.Strength)
					shown++
				}
			}
			if shown == 0 {
				fmt.Printf("No tags co-occur with @%s.\n", tag)
			}
			return nil
		},
	}
}

func newCmdStats(s *state.State) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache tier sizes, or rescan recent notes with --since.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if since != "" {
				return statsSince(cmd, s, since)
			}

			st := s.Tags.Stats()
			fmt.Printf("snapshot resident:  %v\n", st.HasSnapshot)
			if st.HasSnapshot {
				fmt.Printf("snapshot age:       %s\n", st.SnapshotAge.Round(time.Second))
				fmt.Printf("snapshot tags:      %d\n", st.SnapshotTags)
				fmt.Printf("snapshot size:      %s\n", cache.ReadableSize(st.SnapshotBytes))
			}
			fmt.Printf("filter entries:     %d\n", st.FilterEntries)
			fmt.Printf("suggestion entries: %d\n", st.SuggestionEntries)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", `Scan only notes modified since a date ("2024-05-01", "last tuesday").`)
	return cmd
}

// statsSince runs a one-off scan restricted by modification time. It
// bypasses the cache on purpose; the result is a diagnostic view, not a
// snapshot replacement.
func statsSince(cmd *cobra.Command, s *state.State, since string) error {
	cutoff, err := dateparse.ParseLocal(since)
	if err != nil {
		return fmt.Errorf("could not parse --since value %q: %w", since, err)
	}

	scanner := tagsource.NewScanner(s.Vault, tagsource.Options{
		IgnoredFolders: s.Workspace.IgnoredFolders,
		ModifiedAfter:  cutoff,
	})
	snap, err := scanner.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan vault: %w", err)
	}

	fmt.Printf("notes modified since %s: %d\n", cutoff.Format("2006-01-02"), len(snap.Documents))
	shown := 0
	for _, tc := range snap.TopTags {
		if shown >= limit {
			break
		}
		fmt.Printf("@%s (%d)\n", tc.Tag, tc.Count)
		shown++
	}
	return nil
}

func newCmdRefresh(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a full rescan of the vault's tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := s.Tags.Refresh(cmd.Context())
			fmt.Printf("Indexed %d tags across %d notes.\n", len(snap.TopTags), len(snap.Documents))
			return nil
		},
	}
}

func newCmdCleanup(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Evict expired cache tiers and report what was freed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := s.Tags.Cleanup()
			fmt.Printf("Evicted %d cached items (%s).\n",
				report.ClearedItems, cache.ReadableSize(report.FreedBytes))
			return nil
		},
	}
}

func newCmdClear(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cache tiers and the persisted record.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Tags.Clear()
			fmt.Println("Tag cache cleared.")
			return nil
		},
	}
}
