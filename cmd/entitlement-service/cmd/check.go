package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/app"
)

var (
	userID    string
	productID string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether a user holds a valid purchase of a product",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), cfg, &logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.Entitlements.HasValidPurchase(cmd.Context(), userID, productID)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is entitled to %s\n", userID, productID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not entitled to %s\n", userID, productID)
		}
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the products a user can currently access",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), cfg, &logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ids, err := a.Entitlements.ValidProductIDs(cmd.Context(), userID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ids)
	},
}

func init() {
	checkCmd.Flags().StringVar(&userID, "user", "", "user id")
	checkCmd.Flags().StringVar(&productID, "product", "", "product id")
	_ = checkCmd.MarkFlagRequired("user")
	_ = checkCmd.MarkFlagRequired("product")

	productsCmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = productsCmd.MarkFlagRequired("user")
}
