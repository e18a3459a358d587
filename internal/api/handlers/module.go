package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"shopsync/internal/config"
	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/shoper"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ModuleHandler struct {
	db     *gorm.DB
	logger *logger.Logger
	config *config.Config
}

func NewModuleHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config) *ModuleHandler {
	return &ModuleHandler{
		db:     db,
		logger: logger,
		config: cfg,
	}
}

func (h *ModuleHandler) List(c *gin.Context) {
	var modules []models.Module
	if err := h.db.Preload("Shop").Order("created_at desc").Find(&modules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch modules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": modules})
}

func (h *ModuleHandler) Get(c *gin.Context) {
	module, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": module})
}

func (h *ModuleHandler) Create(c *gin.Context) {
	var module models.Module
	if err := c.ShouldBindJSON(&module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if module.ShopID == "" || module.Name == "" || module.Resource == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop_id, name and resource are required"})
		return
	}
	if shoper.ResolvePath(module.Resource, module.APIPathOverride) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource; set api_path_override"})
		return
	}

	if err := h.db.Create(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create module"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": module})
}

func (h *ModuleHandler) Update(c *gin.Context) {
	module, ok := h.load(c)
	if !ok {
		return
	}

	if err := c.ShouldBindJSON(&module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Save(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update module"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": module})
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Module{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete module"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Fields discovers the attribute keys this module's resource actually
// exposes on its deployment, so the user can pick columns.
func (h *ModuleHandler) Fields(c *gin.Context) {
	module, ok := h.load(c)
	if !ok {
		return
	}

	apiPath := shoper.ResolvePath(module.Resource, module.APIPathOverride)
	client := clientFor(h.config, h.logger, module.Shop)
	fields := client.FetchFields(apiPath)
	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"data":  []string{},
			"error": "no attributes discovered; check the shop URL, the token, or set a custom api path",
			"hints": fieldHints(module.Shop.BaseURL, apiPath),
		})
		return
	}

	selected := make(map[string]bool, len(module.FieldsConfig))
	for _, col := range module.FieldsConfig {
		selected[col.Key] = true
	}
	c.JSON(http.StatusOK, gin.H{"data": fields, "selected": selected})
}

// SaveFields stores the chosen columns with their labels and order.
func (h *ModuleHandler) SaveFields(c *gin.Context) {
	module, ok := h.load(c)
	if !ok {
		return
	}

	var columns []models.FieldColumn
	if err := c.ShouldBindJSON(&columns); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for i := range columns {
		if columns[i].Label == "" {
			columns[i].Label = columns[i].Key
		}
		columns[i].Order = i
	}

	module.FieldsConfig = columns
	if err := h.db.Save(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save field config"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": module})
}

// Rows fetches live records and projects them onto the configured columns.
func (h *ModuleHandler) Rows(c *gin.Context) {
	module, ok := h.load(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	apiPath := shoper.ResolvePath(module.Resource, module.APIPathOverride)
	client := clientFor(h.config, h.logger, module.Shop)
	records := client.FetchRows(apiPath, limit)

	columns := module.FieldsConfig
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Order < columns[j].Order })

	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		flat := shoper.Flatten(record)
		if len(columns) == 0 {
			rows = append(rows, flat)
			continue
		}
		row := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			row[col.Key] = flat[col.Key]
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "columns": columns})
}

func (h *ModuleHandler) load(c *gin.Context) (models.Module, bool) {
	var module models.Module
	err := h.db.Preload("Shop").First(&module, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return module, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch module"})
		return module, false
	}
	return module, true
}

// fieldHints lists the URLs a failed discovery tried, for debugging a
// misconfigured deployment.
func fieldHints(baseURL, apiPath string) []string {
	var hints []string
	for _, root := range shoper.BuildRestRoots(baseURL) {
		hints = append(hints, root+apiPath, root+apiPath+"?limit=20")
	}
	return hints
}
