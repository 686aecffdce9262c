package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/ctxstore/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `Create, inspect, and remove session contexts directly against the store.`,
}

var sessionNewCmd = &cobra.Command{
	Use:   "new <directory>",
	Short: "Create a new session for a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := buildService(cmd)
		if err != nil {
			fmt.Printf("Error initializing ctxstore: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close()

		id, err := svc.Registry.Create(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error creating session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <directory> <session-id>",
	Short: "Show the context of a session",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		directory, sessionID := args[0], args[1]

		svc, _, err := buildService(cmd)
		if err != nil {
			fmt.Printf("Error initializing ctxstore: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close()

		record, err := svc.Registry.Get(cmd.Context(), directory, sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}
		if record == nil {
			fmt.Printf("No session '%s' for %s\n", sessionID, directory)
			os.Exit(1)
		}

		// Rendered markdown on a terminal, raw JSON when piped.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			out, err := tui.RenderHistory(record)
			if err == nil {
				fmt.Print(out)
				return
			}
		}

		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <directory> <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		directory := args[0]

		svc, _, err := buildService(cmd)
		if err != nil {
			fmt.Printf("Error initializing ctxstore: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close()

		hasError := false
		for _, sessionID := range args[1:] {
			if err := svc.Registry.End(cmd.Context(), directory, sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
