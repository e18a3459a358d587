package handlers

import (
	"net/http"
	"time"

	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/stats"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ShopHandler struct {
	db     *gorm.DB
	logger *logger.Logger
	config *config.Config
}

func NewShopHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config) *ShopHandler {
	return &ShopHandler{
		db:     db,
		logger: logger,
		config: cfg,
	}
}

func (h *ShopHandler) List(c *gin.Context) {
	var shops []models.Shop
	if err := h.db.Order("name").Find(&shops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shops"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

func (h *ShopHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *ShopHandler) Create(c *gin.Context) {
	var shop models.Shop
	if err := c.ShouldBindJSON(&shop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if shop.Name == "" || shop.BaseURL == "" || shop.BearerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, base_url and bearer_token are required"})
		return
	}

	if err := h.db.Create(&shop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shop"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": shop})
}

func (h *ShopHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return
	}

	if err := c.ShouldBindJSON(&shop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Save(&shop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shop"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *ShopHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Shop{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shop"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Stats fetches live order and product statistics from the shop's API.
func (h *ShopHandler) Stats(c *gin.Context) {
	id := c.Param("id")

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return
	}

	client := clientFor(h.config, h.logger, shop)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"orders":   stats.Orders(client, time.Now()),
			"products": stats.Products(client),
		},
	})
}
