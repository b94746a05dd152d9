package catalog

import "github.com/iliyamo/skyblock-shop/internal/model"

func strPtr(s string) *string { return &s }
func intPtr(n int) *int        { return &n }

var builtinCoins = []model.CoinPackage{
	{ID: "c1", AmountMillion: 50, PriceUSD: 3.99, Description: strPtr("Starter stack")},
	{ID: "c2", AmountMillion: 100, PriceUSD: 6.99, Description: strPtr("Good value"), BestValue: true},
	{ID: "c3", AmountMillion: 250, PriceUSD: 15.99, Description: strPtr("Guild grind ready")},
	{ID: "c4", AmountMillion: 500, PriceUSD: 28.99, Description: strPtr("End-game bankroll")},
}

var builtinAccounts = []model.AccountOffer{
	{
		ID:   "a1",
		Tier: "Starter Account",
		Features: []string{
			"Early-game gear",
			"Basic skills leveled",
			"Email change available",
		},
		PriceUSD: 14.99,
		Stock:    intPtr(5),
	},
	{
		ID:   "a2",
		Tier: "Mid-Game Account",
		Features: []string{
			"Late game gear ready",
			"Solid skill average",
			"Quality of life items",
		},
		PriceUSD: 34.99,
		Stock:    intPtr(3),
		Popular:  true,
	},
	{
		ID:   "a3",
		Tier: "End-Game Account",
		Features: []string{
			"High skill average",
			"Multiple maxed collections",
			"Slayers and dungeons progressed",
		},
		PriceUSD: 79.99,
		Stock:    intPtr(2),
	},
}

// Default returns the catalog the storefront ships with.
func Default() *Catalog {
	c, err := New(builtinCoins, builtinAccounts)
	if err != nil {
		panic("catalog: builtin data is invalid: " + err.Error())
	}
	return c
}
