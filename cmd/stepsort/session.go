package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/stepsort/internal/cli"
	"github.com/aretw0/stepsort/internal/config"
	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
	Long:  `List, inspect and remove sessions in the configured store (.stepsort/sessions by default).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ids, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the stored record of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		sess, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		var failed bool
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed = true
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
		}
		if failed {
			return fmt.Errorf("some sessions could not be removed")
		}
		return nil
	},
}

// openStore opens the configured store. The memory backend would always be
// empty here, so it falls back to the file store like 'run --session'.
func openStore(cmd *cobra.Command) (ports.SessionStore, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Store.Backend == config.StoreMemory {
		cfg.Store.Backend = config.StoreFile
	}
	logger, err := logging.FromLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := cli.BuildStore(ctx, cfg.Store, logger, nil)
	if err != nil {
		return nil, nil, err
	}
	return b.Store, b.Close, nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
}
