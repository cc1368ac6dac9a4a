package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

var (
	createPassword string
	createGroups   []string
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().StringVar(&createPassword, "password", "", "Initial password")
	cmd.Flags().StringSliceVar(&createGroups, "group", nil, "Group membership (repeatable)")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <username> [field=value...]",
		Short: "Create a user record",
		Long: `The create command stores a new user and its index entries.

Example:
  usersctl create alice email=alice@example.com age=31 --password s3cret
  usersctl create bob --group admins --group staff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				return runCreate(ctx, db, args)
			})
		},
	}
}

func runCreate(ctx context.Context, db *users.DB, args []string) error {
	rec := &users.Record{
		Username: args[0],
		Password: createPassword,
		Groups:   createGroups,
	}
	for _, arg := range args[1:] {
		name, v, err := parseFieldArg(arg)
		if err != nil {
			return err
		}
		if err := rec.Set(name, v); err != nil {
			return err
		}
	}
	id, err := db.Create(ctx, rec)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]string{"id": id})
	}
	printf("%s\n", id)
	return nil
}
