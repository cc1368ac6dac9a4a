package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreyvit/users"
)

var (
	// Global flags
	dbPath   string
	backend  string
	prefix   string
	encoding string
	cost     int
	verbose  bool
	jsonOut  bool

	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "usersctl",
	Short: "Manage user records stored in a Bolt or Badger database",
	Long: `usersctl creates, looks up, authenticates and removes user records,
and maintains their secondary indexes.

Defaults for the global flags are read from USERSCTL_DB, USERSCTL_BACKEND
and USERSCTL_PREFIX.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("USERSCTL_DB", "users.db"), "Database file (bolt) or directory (badger)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", envOr("USERSCTL_BACKEND", "bolt"), "Storage backend: bolt or badger")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", os.Getenv("USERSCTL_PREFIX"), "Key prefix (tenant namespace)")
	rootCmd.PersistentFlags().StringVar(&encoding, "encoding", "msgpack", "Record encoding: msgpack or json")
	rootCmd.PersistentFlags().IntVar(&cost, "cost", 0, "bcrypt cost for new password hashes (0 = default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every storage operation")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// openDB opens the storage selected by the global flags.
func openDB() (*users.DB, error) {
	enc, err := users.ParseEncoding(encoding)
	if err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var store users.Storage
	switch backend {
	case "bolt":
		store, err = users.OpenBolt(dbPath, users.BoltOptions{})
	case "badger":
		store, err = users.OpenBadger(dbPath, users.BadgerOptions{SyncWrites: true, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return users.New(store, users.Options{
		Prefix:   prefix,
		Encoding: enc,
		Cost:     cost,
		Logger:   logger,
		Verbose:  verbose,
	}), nil
}

// withDB runs f against a freshly opened database and closes it afterwards.
func withDB(cmd *cobra.Command, f func(ctx context.Context, db *users.DB) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return f(cmd.Context(), db)
}

// lookupArg turns "field=value" into an index lookup and anything else into an id.
func lookupArg(arg string) users.Lookup {
	if field, value, ok := strings.Cut(arg, "="); ok {
		return users.By(field, value)
	}
	return users.ByID(arg)
}

// parseFieldArg parses "name=value". Values that are valid JSON keep their
// type (numbers, booleans, lists, objects); anything else is a string.
func parseFieldArg(arg string) (string, users.Value, error) {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", users.Null, fmt.Errorf("invalid field %q, expected name=value", arg)
	}
	var v users.Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return name, users.String(raw), nil
	}
	return name, v, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printf(format string, args ...any) {
	fmt.Fprintf(stdout, format, args...)
}

type fetchedJSON struct {
	ID     string        `json:"id"`
	Record *users.Record `json:"record"`
}

// printFetched prints a record without its password hash.
func printFetched(f *users.Fetched) error {
	rec := f.Record.Clone()
	rec.Salt = ""
	if jsonOut {
		return printJSON(fetchedJSON{f.ID, rec})
	}
	printf("id:       %s\n", f.ID)
	printf("username: %s\n", rec.Username)
	printf("groups:   %s\n", strings.Join(rec.Groups, ", "))
	for _, fld := range rec.Fields {
		printf("%s: %s\n", fld.Name, fld.Value)
	}
	return nil
}
