// Package handler exposes the HTTP handlers of the shop API.  This file
// serves the pricing catalog.  All responses are read straight from the
// immutable catalog, so the handlers have no error paths of their own.

package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyblock-shop/internal/catalog"
    "github.com/iliyamo/skyblock-shop/internal/model"
)

// PricingHandler serves the coin packages and account offers.
type PricingHandler struct {
    Catalog *catalog.Catalog
}

func NewPricingHandler(c *catalog.Catalog) *PricingHandler {
    return &PricingHandler{Catalog: c}
}

// ----- DTOs -----

type pricingResp struct {
    Coins    []model.CoinPackage  `json:"coins"`
    Accounts []model.AccountOffer `json:"accounts"`
    Currency string               `json:"currency"`
}
type coinsResp struct {
    Coins    []model.CoinPackage `json:"coins"`
    Currency string              `json:"currency"`
}
type accountsResp struct {
    Accounts []model.AccountOffer `json:"accounts"`
    Currency string               `json:"currency"`
}

// GetPricing returns the full catalog.
func (h *PricingHandler) GetPricing(c echo.Context) error {
    return c.JSON(http.StatusOK, pricingResp{
        Coins:    h.Catalog.Coins(),
        Accounts: h.Catalog.Accounts(),
        Currency: catalog.Currency,
    })
}

// GetCoins returns only the coin packages.
func (h *PricingHandler) GetCoins(c echo.Context) error {
    return c.JSON(http.StatusOK, coinsResp{Coins: h.Catalog.Coins(), Currency: catalog.Currency})
}

// GetAccounts returns only the account offers.
func (h *PricingHandler) GetAccounts(c echo.Context) error {
    return c.JSON(http.StatusOK, accountsResp{Accounts: h.Catalog.Accounts(), Currency: catalog.Currency})
}
