package handlers

import (
	"net/http"

	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JobHandler enqueues long-running sync jobs for the background worker
// instead of running them inside the request.
type JobHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher *events.Publisher
}

func NewJobHandler(db *gorm.DB, logger *logger.Logger, publisher *events.Publisher) *JobHandler {
	return &JobHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

type applyDefaultsRequest struct {
	StockLevel *int   `json:"stock_level"`
	VATRate    string `json:"vat_rate"`
}

// ApplyDefaults queues a bulk write of default stock/VAT values over every
// product of the shop.
func (h *JobHandler) ApplyDefaults(c *gin.Context) {
	shopID := c.Param("id")

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return
	}

	var req applyDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StockLevel == nil && req.VATRate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock_level or vat_rate is required"})
		return
	}

	data := map[string]interface{}{"vat_rate": req.VATRate}
	if req.StockLevel != nil {
		data["stock_level"] = *req.StockLevel
	}
	err := h.publisher.Publish(c.Request.Context(), events.Event{
		Type:   events.TypeDefaultsApply,
		ShopID: shop.ID,
		Data:   data,
	})
	if err != nil {
		h.logger.Error("Failed to enqueue defaults job: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue job"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// SyncRedirect queues a background reconciliation for one redirect rule.
func (h *JobHandler) SyncRedirect(c *gin.Context) {
	var rule models.RedirectRule
	if err := h.db.First(&rule, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Redirect rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redirect rule"})
		return
	}

	err := h.publisher.Publish(c.Request.Context(), events.Event{
		Type:   events.TypeRedirectSync,
		RuleID: rule.ID,
	})
	if err != nil {
		h.logger.Error("Failed to enqueue redirect sync: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue job"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
