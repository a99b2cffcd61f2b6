package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

// RulesetHandler exposes the loaded product-type rule packs so the grid UI
// can render dropdowns and per-field hints without hardcoding them.
type RulesetHandler struct {
	rules *ruleset.Config
}

// NewRulesetHandler creates a new RulesetHandler.
func NewRulesetHandler(rules *ruleset.Config) *RulesetHandler {
	return &RulesetHandler{rules: rules}
}

// ListProductTypes handles GET /api/v1/product-types
func (h *RulesetHandler) ListProductTypes(c *gin.Context) {
	type productType struct {
		ID       int                    `json:"id"`
		Name     string                 `json:"name"`
		Category domain.ProductCategory `json:"category"`
	}

	ids := h.rules.ProductTypeIDs()
	out := make([]productType, 0, len(ids))
	for _, id := range ids {
		pack := h.rules.Pack(id)
		if pack == nil {
			continue
		}
		out = append(out, productType{ID: id, Name: pack.Name, Category: h.rules.Category(id)})
	}

	RespondOK(c, out)
}

// GetProductType handles GET /api/v1/product-types/:id
func (h *RulesetHandler) GetProductType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "product type ID must be an integer")
		return
	}

	pack := h.rules.Pack(id)
	if pack == nil {
		RespondError(c, http.StatusNotFound, "PRODUCT_TYPE_NOT_FOUND", "no rule pack for that product type")
		return
	}

	RespondOK(c, pack)
}
