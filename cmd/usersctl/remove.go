package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

func init() {
	rootCmd.AddCommand(newRemoveCmd())
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id | field=value>",
		Aliases: []string{"rm"},
		Short:   "Remove a user record and its index entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				lookup := lookupArg(args[0])
				id := lookup.ID
				if id == "" {
					f, err := db.Get(ctx, lookup)
					if err != nil {
						return err
					}
					id = f.ID
				}
				if err := db.Remove(ctx, id); err != nil {
					return err
				}
				if verbose {
					printf("removed %s\n", id)
				}
				return nil
			})
		},
	}
}
