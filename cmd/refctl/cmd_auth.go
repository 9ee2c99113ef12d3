package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/client"
)

var registerReferralCode string

// refctl register <email> <password> [--referral CODE]
var registerCmd = &cobra.Command{
	Use:   "register <email> <password>",
	Short: "Create an account, optionally with a referral code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, session, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.Register(cmd.Context(), args[0], args[1], registerReferralCode)
		if err != nil {
			return err
		}
		if err := session.Save(sessionPath); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("registered %s\nyour referral code: %s\n", res.User.Email, res.User.ReferralCode)
		return nil
	},
}

// refctl login <email> <password>
var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and store the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, session, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := session.Save(sessionPath); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		fmt.Printf("logged in as %s\n", res.User.Email)
		return nil
	},
}

// refctl logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.ClearSession(sessionPath); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerReferralCode, "referral", "", "referral code of the user who invited you")
}
