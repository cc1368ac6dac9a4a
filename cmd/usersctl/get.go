package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id | field=value>",
		Short: "Show a user record",
		Long: `The get command loads a record by id or through an index.

Example:
  usersctl get 0b7c1e9e-8f4c-4d0e-9a53-0c6f1f0e2a11
  usersctl get username=alice
  usersctl get email=alice@example.com --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				f, err := db.Get(ctx, lookupArg(args[0]))
				if err != nil {
					return err
				}
				return printFetched(f)
			})
		},
	}
}
