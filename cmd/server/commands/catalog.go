package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/iliyamo/skyblock-shop/internal/catalog"
	"github.com/iliyamo/skyblock-shop/internal/model"
)

// catalogDoc has the same shape as GET /api/pricing.
type catalogDoc struct {
	Coins    []model.CoinPackage  `json:"coins"`
	Accounts []model.AccountOffer `json:"accounts"`
	Currency string               `json:"currency"`
}

func catalogCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate a catalog and print it as the pricing endpoint would",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := loadCatalog(file)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalogDoc{Coins: c.Coins(), Accounts: c.Accounts(), Currency: catalog.Currency})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog file (default: built-in catalog)")
	return cmd
}
