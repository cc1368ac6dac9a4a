package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

var errAuthFailed = errors.New("authentication failed")

var authPassword string

func init() {
	cmd := newAuthCmd()
	cmd.Flags().StringVar(&authPassword, "password", "", "Password to check")
	cmd.MarkFlagRequired("password")
	rootCmd.AddCommand(cmd)
}

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth <id | field=value>",
		Short: "Check a password against a stored record",
		Long: `The auth command exits with an error unless the password matches.

Example:
  usersctl auth username=alice --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *users.DB) error {
				f, err := db.Auth(ctx, lookupArg(args[0]), authPassword)
				if err != nil {
					return err
				}
				if f == nil {
					return errAuthFailed
				}
				return printFetched(f)
			})
		},
	}
}
