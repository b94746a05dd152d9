package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/skyblock-shop/internal/model"
)

// fileFormat mirrors the layout of a catalog YAML file:
//
//	coins:
//	  - id: c1
//	    amount_million: 50
//	    price_usd: 3.99
//	accounts:
//	  - id: a1
//	    tier: Starter Account
//	    features: [Early-game gear]
//	    price_usd: 14.99
//	    stock: 5
type fileFormat struct {
	Coins    []model.CoinPackage  `yaml:"coins"`
	Accounts []model.AccountOffer `yaml:"accounts"`
}

// LoadFile reads a YAML catalog from path and validates it.  Unknown keys
// are rejected so typos do not silently drop fields.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var f fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Coins, f.Accounts)
}
