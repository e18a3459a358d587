package handlers

import (
	"net/http"
	"strconv"

	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/shoper"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecordHandler exposes remote records directly: list them, inspect one as
// an editable flat field map, and push edits through the write-verify
// engine.
type RecordHandler struct {
	db     *gorm.DB
	logger *logger.Logger
	config *config.Config
}

func NewRecordHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config) *RecordHandler {
	return &RecordHandler{
		db:     db,
		logger: logger,
		config: cfg,
	}
}

func (h *RecordHandler) List(c *gin.Context) {
	client, apiPath, ok := h.resolve(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records := client.FetchRows(apiPath, limit)

	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, shoper.Flatten(record))
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
}

// Get returns one record plus its flat projection annotated with per-field
// editability, which is what an editing form needs.
func (h *RecordHandler) Get(c *gin.Context) {
	client, apiPath, ok := h.resolve(c)
	if !ok {
		return
	}

	record, found := client.FetchRecord(apiPath, c.Param("rid"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found on any endpoint root"})
		return
	}

	flat := shoper.Flatten(record)
	editable := make(map[string]bool, len(flat))
	for key := range flat {
		editable[key] = client.Policy().IsEditable(key)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     record,
		"flat":     flat,
		"editable": editable,
	})
}

// Update takes a flat change map and reports the write-verify outcome. The
// response status reflects the outcome: 200 confirmed, 207 partial,
// 502 rejected.
func (h *RecordHandler) Update(c *gin.Context) {
	client, apiPath, ok := h.resolve(c)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty change set"})
		return
	}

	outcome := client.UpdateRecord(apiPath, c.Param("rid"), changes)
	switch outcome.Status {
	case shoper.UpdateConfirmed:
		c.JSON(http.StatusOK, gin.H{"data": outcome})
	case shoper.UpdatePartial:
		c.JSON(http.StatusMultiStatus, gin.H{"data": outcome})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"data": outcome})
	}
}

func (h *RecordHandler) resolve(c *gin.Context) (*shoper.Client, string, bool) {
	var shop models.Shop
	err := h.db.First(&shop, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
		return nil, "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return nil, "", false
	}

	resource := c.Param("resource")
	apiPath := shoper.ResolvePath(resource, c.Query("path"))
	if apiPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource; pass ?path= for custom endpoints"})
		return nil, "", false
	}

	return clientFor(h.config, h.logger, shop), apiPath, true
}
