package handlers

import (
	"time"

	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/shoper"
)

// clientFor builds a remote API client for one shop, carrying the
// configured timeout and settle delay.
func clientFor(cfg *config.Config, lg *logger.Logger, shop models.Shop) *shoper.Client {
	return shoper.NewClient(
		shoper.Connection{BaseURL: shop.BaseURL, BearerToken: shop.BearerToken},
		lg,
		shoper.WithTimeout(time.Duration(cfg.ShoperTimeoutSeconds)*time.Second),
		shoper.WithSettleDelay(time.Duration(cfg.ShoperSettleDelayMS)*time.Millisecond),
	)
}
