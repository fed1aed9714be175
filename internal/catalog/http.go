package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

// Register registers the catalog routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/templates", h.ListTemplates)
	rg.GET("/templates/:id", h.GetTemplate)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/icons", h.ListIcons)
	rg.GET("/fonts", h.ListFonts)
	rg.GET("/palettes", h.ListPalettes)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates := h.catalog.TemplatesIn(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

func (h *Handler) GetTemplate(c *gin.Context) {
	t, err := h.catalog.Template(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": h.catalog.Categories,
		"icons":     h.catalog.IconCategories(),
	})
}

// ListIcons supports ?q= for search and ?category= for filtering; q wins when both are set.
func (h *Handler) ListIcons(c *gin.Context) {
	var icons []Icon
	switch {
	case c.Query("q") != "":
		icons = h.catalog.SearchIcons(c.Query("q"))
	case c.Query("category") != "":
		icons = h.catalog.IconsByCategory(c.Query("category"))
	default:
		icons = h.catalog.Icons()
	}
	if icons == nil {
		icons = []Icon{}
	}
	c.JSON(http.StatusOK, gin.H{"icons": icons, "count": len(icons)})
}

func (h *Handler) ListFonts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fonts": h.catalog.Fonts()})
}

func (h *Handler) ListPalettes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"palettes": h.catalog.Palettes()})
}
