package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

func init() {
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Inspect and change the index registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List indexed fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				names, err := db.Indexes(ctx)
				if errors.Is(err, users.ErrNotFound) {
					names = nil
				} else if err != nil {
					return err
				}
				return printNames(names)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <field>...",
		Short: "Register fields for indexing",
		Long: `The add command registers fields for indexing. Existing records are
not indexed until "usersctl reindex" is run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				if _, err := db.EnsureIndexes(ctx); err != nil {
					return err
				}
				names, err := db.AddIndexes(ctx, args...)
				if err != nil {
					return err
				}
				return printNames(names)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <field>...",
		Short: "Unregister indexed fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				names, err := db.RemoveIndexes(ctx, args...)
				if err != nil {
					return err
				}
				return printNames(names)
			})
		},
	})
	rootCmd.AddCommand(cmd)
}

func printNames(names []string) error {
	if jsonOut {
		if names == nil {
			names = []string{}
		}
		return printJSON(names)
	}
	if len(names) > 0 {
		printf("%s\n", strings.Join(names, "\n"))
	}
	return nil
}
