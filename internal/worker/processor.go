package worker

import (
	"fmt"
	"time"

	"shopsync/internal/config"
	"shopsync/internal/database"
	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/redirects"
	"shopsync/internal/shoper"
)

// Processor dispatches one sync event to the matching engine.
type Processor struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
}

func NewProcessor(cfg *config.Config, logger *logger.Logger, db *database.Database) *Processor {
	return &Processor{
		config: cfg,
		logger: logger,
		db:     db,
	}
}

func (p *Processor) Process(event events.Event) error {
	switch event.Type {
	case events.TypeRedirectSync:
		return p.syncRedirect(event)
	case events.TypeProductUpdate:
		return p.updateProduct(event)
	case events.TypeDefaultsApply:
		return p.applyDefaults(event)
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
}

func (p *Processor) syncRedirect(event events.Event) error {
	var rule models.RedirectRule
	if err := p.db.DB.Preload("Shop").First(&rule, "id = ?", event.RuleID).Error; err != nil {
		return fmt.Errorf("redirect rule %s: %w", event.RuleID, err)
	}

	result := redirects.SyncRule(p.clientFor(rule.Shop), &rule)
	if err := p.db.DB.Save(&rule).Error; err != nil {
		return fmt.Errorf("persist rule %s: %w", rule.ID, err)
	}

	switch result.Level {
	case redirects.LevelSynced:
		p.logger.Info("Redirect %s synced: %s", rule.ID, result.Message)
	case redirects.LevelWarning:
		p.logger.Warn("Redirect %s unconfirmed: %s", rule.ID, result.Message)
	default:
		p.logger.Error("Redirect %s failed: %s", rule.ID, result.Message)
	}
	return nil
}

func (p *Processor) updateProduct(event events.Event) error {
	shop, err := p.shop(event.ShopID)
	if err != nil {
		return err
	}

	recordID, _ := event.Data["record_id"].(string)
	changes, _ := event.Data["changes"].(map[string]interface{})
	if recordID == "" || len(changes) == 0 {
		return fmt.Errorf("product.update event needs record_id and changes")
	}

	outcome := p.clientFor(shop).UpdateRecord("products", recordID, changes)
	if outcome.Status == shoper.UpdateConfirmed {
		p.logger.Info("Product %s updated: %s", recordID, outcome.Message)
	} else {
		p.logger.Warn("Product %s update %s: %s", recordID, outcome.Status, outcome.Message)
	}
	return nil
}

func (p *Processor) applyDefaults(event events.Event) error {
	shop, err := p.shop(event.ShopID)
	if err != nil {
		return err
	}

	var stockLevel *int
	if raw, ok := event.Data["stock_level"].(float64); ok {
		level := int(raw)
		stockLevel = &level
	}
	vatRate, _ := event.Data["vat_rate"].(string)

	summary := p.clientFor(shop).ApplyDefaults(stockLevel, vatRate)
	p.logger.Info("Defaults applied to shop %s: %d/%d updated, %d failed",
		shop.ID, summary.Updated, summary.ProductsChecked, summary.Failed)
	for _, msg := range summary.Errors {
		p.logger.Warn("Defaults on shop %s: %s", shop.ID, msg)
	}
	return nil
}

func (p *Processor) shop(id string) (models.Shop, error) {
	var shop models.Shop
	if err := p.db.DB.First(&shop, "id = ?", id).Error; err != nil {
		return shop, fmt.Errorf("shop %s: %w", id, err)
	}
	return shop, nil
}

func (p *Processor) clientFor(shop models.Shop) *shoper.Client {
	return shoper.NewClient(
		shoper.Connection{BaseURL: shop.BaseURL, BearerToken: shop.BearerToken},
		p.logger,
		shoper.WithTimeout(time.Duration(p.config.ShoperTimeoutSeconds)*time.Second),
		shoper.WithSettleDelay(time.Duration(p.config.ShoperSettleDelayMS)*time.Millisecond),
	)
}
