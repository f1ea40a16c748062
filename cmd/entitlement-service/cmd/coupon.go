package cmd

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/coupon"
)

var couponCode string

var couponCmd = &cobra.Command{
	Use:   "coupon",
	Short: "Validate a coupon code for a product against the pricing API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolver := coupon.NewResolver(cfg.Coupon.BaseURL,
			coupon.WithHTTPClient(&http.Client{Timeout: cfg.Coupon.Timeout}),
			coupon.WithBearerToken(cfg.Coupon.Token),
		)

		res, err := resolver.Validate(cmd.Context(), couponCode, productID)
		if err != nil {
			logger.Debug().Err(err).Msg("coupon validation failed")
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	couponCmd.Flags().StringVar(&couponCode, "code", "", "coupon code")
	couponCmd.Flags().StringVar(&productID, "product", "", "product id")
	_ = couponCmd.MarkFlagRequired("code")
	_ = couponCmd.MarkFlagRequired("product")
}
