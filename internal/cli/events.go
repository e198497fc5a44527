package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Stream game messages from the server",
		Long: `Connect to the websocket with your session and print every message
the server pushes, until interrupted.

Messages include:
  - STATE_CHANGE: Room phase changed
  - PLAYER_READY: A ready flag changed
  - ANSWER_SET: A player committed their secret
  - NEW_GUESS: A guess was judged
  - GAME_FINISHED: The game ended (win, abandon, or timeout)
  - PLAYER_CONNECTED / PLAYER_DISCONNECTED: Presence changes

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents()
		},
	}
}

func streamEvents() error {
	conn, err := dialWS()
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Output != "json" {
		fmt.Println("Connected; streaming messages")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if cfg.Output != "json" {
				fmt.Println("Disconnected")
			}
			return nil
		}
		printServerMessage(message)
	}
}
