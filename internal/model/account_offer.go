package model

// AccountOffer is a pre-levelled game account offered for sale.  The
// Features slice is shown to buyers in the order it was authored.
//
// Fields:
//  ID       – unique identifier within the account catalog (e.g. "a1").
//  Tier     – display label of the offer.
//  Features – ordered selling points.
//  PriceUSD – price in US dollars.
//  Stock    – remaining units (nil means stock is not tracked).
//  Popular  – highlights the offer on the storefront.
type AccountOffer struct {
    ID       string   `json:"id" yaml:"id"`
    Tier     string   `json:"tier" yaml:"tier"`
    Features []string `json:"features" yaml:"features"`
    PriceUSD float64  `json:"price_usd" yaml:"price_usd"`
    Stock    *int     `json:"stock" yaml:"stock"` // nullable
    Popular  bool     `json:"popular" yaml:"popular"`
}

// Clone returns a deep copy of o.  A nil Features slice becomes an empty
// one so it always encodes as a JSON array.
func (o AccountOffer) Clone() AccountOffer {
    out := o
    out.Features = make([]string, len(o.Features))
    copy(out.Features, o.Features)
    if o.Stock != nil {
        s := *o.Stock
        out.Stock = &s
    }
    return out
}
