package model

// CoinPackage is a bundle of in-game coins sold for a fixed USD price.
// Packages are declared once when the catalog is built and are never
// modified afterwards.
//
// Fields:
//  ID            – unique identifier within the coin catalog (e.g. "c1").
//  AmountMillion – number of coins in the package, in millions.
//  PriceUSD      – price in US dollars.
//  Description   – optional marketing line (nil renders as null).
//  BestValue     – highlights the package on the storefront.
type CoinPackage struct {
    ID            string   `json:"id" yaml:"id"`
    AmountMillion float64  `json:"amount_million" yaml:"amount_million"`
    PriceUSD      float64  `json:"price_usd" yaml:"price_usd"`
    Description   *string  `json:"description" yaml:"description"`
    BestValue     bool     `json:"best_value" yaml:"best_value"`
}

// Clone returns a copy that shares no memory with p.
func (p CoinPackage) Clone() CoinPackage {
    out := p
    if p.Description != nil {
        d := *p.Description
        out.Description = &d
    }
    return out
}
