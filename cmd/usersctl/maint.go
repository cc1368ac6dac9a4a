package main

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Write missing index entries for every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				n, err := db.Reindex(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(map[string]int{"written": n})
				}
				printf("%d index entries written\n", n)
				return nil
			})
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count records and index entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				st, err := db.Stats(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(st)
				}
				printf("records:       %d (%d bytes)\n", st.Records, st.DataSize)
				printf("index entries: %d (%d bytes)\n", st.IndexEntries, st.IndexSize)
				for _, field := range slices.Sorted(maps.Keys(st.IndexesByField)) {
					printf("  %-12s %d\n", field, st.IndexesByField[field])
				}
				printf("registry:      %v\n", st.HasRegistry)
				return nil
			})
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print every key under the prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				out, err := db.Dump(ctx)
				if err != nil {
					return err
				}
				printf("%s", out)
				return nil
			})
		},
	})
}
