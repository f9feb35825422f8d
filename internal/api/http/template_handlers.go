package http

import (
	"net/http"
	"strings"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

func templateKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// ListTemplates lists prompt templates, optionally filtered by ?match=glob
func (h *Handlers) ListTemplates(c *gin.Context) {
	list, err := h.templates.List(c.Query("match"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": list})
}

// GetTemplate returns one template; an empty key lists them all
func (h *Handlers) GetTemplate(c *gin.Context) {
	key := templateKey(c)
	if key == "" {
		h.ListTemplates(c)
		return
	}

	tpl, err := h.templates.Get(key)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// PutTemplate creates or replaces a template
func (h *Handlers) PutTemplate(c *gin.Context) {
	var req types.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	key := templateKey(c)
	if err := utils.ValidateTemplateKey(key); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.templates.Set(key, req.Text); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.Template{Key: key, Text: req.Text})
}

// DeleteTemplate removes a template
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	key := templateKey(c)
	deleted, err := h.templates.Delete(key)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "key": key})
}
