// Package cli implements the nbgame command line client for the
// number baseball server: room management over the REST API and game
// actions over the websocket.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "nbgame",
		Short: "CLI client for the number baseball server",
		Long: `nbgame is a CLI client for the number baseball duel server.

Room management goes over the JSON API; in-game actions (ready,
setting your secret, guessing) go over the websocket. The session id
from 'room create' or 'room join' is stored locally and reused.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load session id from file if not provided via flag/env
			if err := cfg.LoadSession(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.SessionID)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: NBGAME_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionID, "session", cfg.SessionID, "Session id (env: NBGAME_SESSION)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Session file path (env: NBGAME_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
