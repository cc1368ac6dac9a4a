package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

func init() {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Change group membership",
	}
	cmd.AddCommand(newGroupsCmd("add", "Add groups to a user", (*users.DB).AddGroups))
	cmd.AddCommand(newGroupsCmd("remove", "Remove groups from a user", (*users.DB).RemoveGroups))
	rootCmd.AddCommand(cmd)
}

type groupsFunc func(db *users.DB, ctx context.Context, lookup users.Lookup, groups ...string) (*users.Fetched, error)

func newGroupsCmd(use, short string, apply groupsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id | field=value> <group>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				f, err := apply(db, ctx, lookupArg(args[0]), args[1:]...)
				if err != nil {
					return err
				}
				if err := f.Save(ctx); err != nil {
					return err
				}
				return printFetched(f)
			})
		},
	}
}
