package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room operations",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomShowCmd())
	cmd.AddCommand(newRoomStatusCmd())
	cmd.AddCommand(newRoomLeaveCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		nickname       string
		digits         int
		allowZero      bool
		allowDuplicate bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"nickname":        nickname,
				"digits":          digits,
				"allow_zero":      allowZero,
				"allow_duplicate": allowDuplicate,
			}

			var result RoomResult
			if err := client.Post("/api/v1/rooms", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(result.Session.SessionID); err != nil {
				return fmt.Errorf("room created but session not saved: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Display nickname")
	cmd.Flags().IntVar(&digits, "digits", 3, "Number of digits (3-5)")
	cmd.Flags().BoolVar(&allowZero, "allow-zero", false, "Allow the digit zero")
	cmd.Flags().BoolVar(&allowDuplicate, "allow-duplicate", false, "Allow duplicate digits")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	var nickname string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join an existing room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			body := map[string]any{"nickname": nickname}

			var result RoomResult
			if err := client.Post("/api/v1/rooms/"+code+"/join", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(result.Session.SessionID); err != nil {
				return fmt.Errorf("room joined but session not saved: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Display nickname")

	return cmd
}

func newRoomShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show a room by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result Room
			if err := client.Get("/api/v1/rooms/"+code, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your current room",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Get("/api/v1/session/room", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave your current room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/session/room"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left room")
			return nil
		},
	}
}
