// Package catalog holds the shop's pricing data.  A Catalog is built once
// at startup, validated, and then only read; there is no way to change it
// afterwards, so it can be shared between request goroutines freely.
package catalog

import (
	"errors"
	"fmt"

	"github.com/iliyamo/skyblock-shop/internal/model"
)

// Currency is the ISO code every price in the catalog is expressed in.
const Currency = "USD"

// ErrInvalidCatalog is returned when records break the catalog invariants
// (empty or duplicate ids, negative prices, amounts or stock).
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an immutable snapshot of coin packages and account offers.
type Catalog struct {
	coins    []model.CoinPackage
	accounts []model.AccountOffer
}

// New validates the records and returns a Catalog owning private copies
// of them.  Declaration order is preserved.
func New(coins []model.CoinPackage, accounts []model.AccountOffer) (*Catalog, error) {
	if err := validateCoins(coins); err != nil {
		return nil, err
	}
	if err := validateAccounts(accounts); err != nil {
		return nil, err
	}
	return &Catalog{coins: cloneCoins(coins), accounts: cloneAccounts(accounts)}, nil
}

// Coins returns the coin packages in declaration order.
func (c *Catalog) Coins() []model.CoinPackage { return cloneCoins(c.coins) }

// Accounts returns the account offers in declaration order.
func (c *Catalog) Accounts() []model.AccountOffer { return cloneAccounts(c.accounts) }

func validateCoins(coins []model.CoinPackage) error {
	seen := make(map[string]bool, len(coins))
	for i, p := range coins {
		switch {
		case p.ID == "":
			return fmt.Errorf("%w: coin package #%d has no id", ErrInvalidCatalog, i)
		case seen[p.ID]:
			return fmt.Errorf("%w: duplicate coin package id %q", ErrInvalidCatalog, p.ID)
		case p.PriceUSD < 0:
			return fmt.Errorf("%w: coin package %q has negative price", ErrInvalidCatalog, p.ID)
		case p.AmountMillion < 0:
			return fmt.Errorf("%w: coin package %q has negative amount", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func validateAccounts(accounts []model.AccountOffer) error {
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		switch {
		case a.ID == "":
			return fmt.Errorf("%w: account offer #%d has no id", ErrInvalidCatalog, i)
		case seen[a.ID]:
			return fmt.Errorf("%w: duplicate account offer id %q", ErrInvalidCatalog, a.ID)
		case a.PriceUSD < 0:
			return fmt.Errorf("%w: account offer %q has negative price", ErrInvalidCatalog, a.ID)
		case a.Stock != nil && *a.Stock < 0:
			return fmt.Errorf("%w: account offer %q has negative stock", ErrInvalidCatalog, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

func cloneCoins(in []model.CoinPackage) []model.CoinPackage {
	out := make([]model.CoinPackage, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneAccounts(in []model.AccountOffer) []model.AccountOffer {
	out := make([]model.AccountOffer, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
