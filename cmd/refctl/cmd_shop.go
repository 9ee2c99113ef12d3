package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buyAmount  int64
	buyProduct string
)

// refctl buy [--amount N] [--product SLUG]
var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Spend credits on a demo purchase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.Buy(cmd.Context(), buyAmount, buyProduct)
		if err != nil {
			return err
		}

		fmt.Printf("%s (purchase #%d)\n", res.Message, res.Purchase.ID)
		if res.Purchase.ReferralBonus {
			fmt.Println("first purchase — referral bonus paid to you and your referrer")
		}
		fmt.Printf("credits remaining: %d\n", res.Credits)
		return nil
	},
}

// refctl dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your referral stats and credit balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}

		d, err := c.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("referral code:  %s\n", d.ReferralCode)
		fmt.Printf("total referred: %d\n", d.TotalReferred)
		fmt.Printf("converted:      %d\n", d.Converted)
		fmt.Printf("credits:        %d\n", d.Credits)
		return nil
	},
}

// refctl products
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the demo catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}

		products, err := c.Products(cmd.Context())
		if err != nil {
			return err
		}

		for _, p := range products {
			fmt.Printf("%-16s %-16s %s credits=%d\n", p.Slug, p.Title, p.Price, p.CreditCost)
		}
		return nil
	},
}

func init() {
	buyCmd.Flags().Int64Var(&buyAmount, "amount", 0, "credits to spend (0 = server default)")
	buyCmd.Flags().StringVar(&buyProduct, "product", "", "product slug to record on the purchase")
}
