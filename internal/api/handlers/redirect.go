package handlers

import (
	"net/http"

	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/redirects"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RedirectHandler struct {
	db     *gorm.DB
	logger *logger.Logger
	config *config.Config
}

func NewRedirectHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config) *RedirectHandler {
	return &RedirectHandler{
		db:     db,
		logger: logger,
		config: cfg,
	}
}

func (h *RedirectHandler) List(c *gin.Context) {
	query := h.db.Preload("Shop").Order("created_at desc")
	if shopID := c.Query("shop_id"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}

	var rules []models.RedirectRule
	if err := query.Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redirect rules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (h *RedirectHandler) Get(c *gin.Context) {
	rule, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (h *RedirectHandler) Create(c *gin.Context) {
	var rule models.RedirectRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rule.ShopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop_id is required"})
		return
	}
	if rule.RuleType == "" {
		rule.RuleType = models.RuleURLToURL
	}
	if rule.StatusCode == 0 {
		rule.StatusCode = 301
	}

	if err := h.db.Create(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redirect rule"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

func (h *RedirectHandler) Update(c *gin.Context) {
	rule, ok := h.load(c)
	if !ok {
		return
	}

	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update redirect rule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (h *RedirectHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.RedirectRule{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete redirect rule"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Sync reconciles the rule with the remote system and persists whatever
// state the engine resolved, including after failures, so retries are
// idempotent.
func (h *RedirectHandler) Sync(c *gin.Context) {
	rule, ok := h.load(c)
	if !ok {
		return
	}

	client := clientFor(h.config, h.logger, rule.Shop)
	result := redirects.SyncRule(client, &rule)

	if err := h.db.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist sync state"})
		return
	}

	switch result.Level {
	case redirects.LevelSynced:
		c.JSON(http.StatusOK, gin.H{"data": result, "rule": rule})
	case redirects.LevelWarning:
		c.JSON(http.StatusAccepted, gin.H{"data": result, "rule": rule})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"data": result, "rule": rule})
	}
}

func (h *RedirectHandler) load(c *gin.Context) (models.RedirectRule, bool) {
	var rule models.RedirectRule
	err := h.db.Preload("Shop").First(&rule, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Redirect rule not found"})
		return rule, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch redirect rule"})
		return rule, false
	}
	return rule, true
}
