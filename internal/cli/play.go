package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively over the websocket",
		Long: `Connect to the server with your session and play from the terminal.
The connection stays open for the whole game; dropping it mid-game
starts your reconnection grace timer.

Commands:
  ready            Mark yourself ready
  unready          Clear your ready flag
  answer <digits>  Commit your secret number
  suggest          Ask the server for a candidate secret
  guess <digits>   Guess the opponent's secret
  abandon          Forfeit the game
  leave            Leave the room
  quit             Disconnect and exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.InOrStdin())
		},
	}
}

func runPlay(stdin io.Reader) error {
	conn, err := dialWS()
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Output != "json" {
		fmt.Println("Connected; type commands (ready / answer / guess / quit)")
	}

	// Print server messages as they arrive
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			printServerMessage(message)
		}
	}()

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		frame, err := parsePlayCommand(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		if err := conn.WriteJSON(frame); err != nil {
			return fmt.Errorf("failed to send action: %w", err)
		}

		select {
		case <-done:
			// Server closed the connection
			return nil
		default:
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// parsePlayCommand turns a terminal line into a websocket frame.
func parsePlayCommand(line string) (map[string]any, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "ready":
		return map[string]any{"type": "ready", "payload": map[string]any{"ready": true}}, nil
	case "unready":
		return map[string]any{"type": "ready", "payload": map[string]any{"ready": false}}, nil
	case "answer":
		if len(fields) != 2 {
			return nil, errors.New("usage: answer <digits>")
		}
		return map[string]any{"type": "set_answer", "payload": map[string]any{"answer": fields[1]}}, nil
	case "guess":
		if len(fields) != 2 {
			return nil, errors.New("usage: guess <digits>")
		}
		return map[string]any{"type": "guess", "payload": map[string]any{"guess": fields[1]}}, nil
	case "suggest":
		return map[string]any{"type": "suggest"}, nil
	case "abandon":
		return map[string]any{"type": "abandon"}, nil
	case "leave":
		return map[string]any{"type": "leave"}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", fields[0])
	}
}

// dialWS connects to the server's websocket endpoint with the stored
// session id.
func dialWS() (*websocket.Conn, error) {
	if cfg.SessionID == "" {
		return nil, errors.New("no session; run 'room create' or 'room join' first")
	}

	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = "session_id=" + url.QueryEscape(cfg.SessionID)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}
	return conn, nil
}

// printServerMessage renders one server envelope.
func printServerMessage(message []byte) {
	if cfg.Output == "json" {
		fmt.Println(string(message))
		return
	}

	var envelope struct {
		Type      string          `json:"type"`
		Payload   json.RawMessage `json:"payload"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		fmt.Println(string(message))
		return
	}

	ts := time.UnixMilli(envelope.Timestamp).Format("15:04:05")
	payload := strings.TrimSpace(string(envelope.Payload))
	fmt.Printf("[%s] %s %s\n", ts, envelope.Type, payload)
}
