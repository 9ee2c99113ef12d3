package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/client"
)

var (
	apiBase     string
	sessionPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refctl",
	Short: "refctl — demo client for the referral credit shop",
	Long:  "refctl talks to the referral shop API and keeps your session in a local file.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "session file")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(productsCmd)
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".refctl-session.json"
	}
	return filepath.Join(home, ".refctl", "session.json")
}

// newClient loads the session file and wires it into a client.
func newClient() (*client.Client, *client.Session, error) {
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	return client.New(apiBase, session), session, nil
}
