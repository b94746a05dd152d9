// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/skyblock-shop/internal/model"

// CatalogQueueName is the durable queue catalog snapshots are sent to.
const CatalogQueueName = "catalog.published"

// CatalogPublishedEvent is published once when an API instance starts
// serving a catalog.  It carries the whole catalog so consumers (cache
// warmers, the storefront build, audit logs) never need to call the API.
type CatalogPublishedEvent struct {
    Source      string               `json:"source"` // "builtin" or the catalog file path
    Currency    string               `json:"currency"`
    Coins       []model.CoinPackage  `json:"coins"`
    Accounts    []model.AccountOffer `json:"accounts"`
    PublishedAt string               `json:"published_at"`
}
