package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"signquote/internal/domain"
	"signquote/internal/export"
	"signquote/internal/service"
)

// EstimateHandler handles estimate endpoints.
type EstimateHandler struct {
	estimateService service.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimateService service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// Create handles POST /api/v1/estimates
func (h *EstimateHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_id and title are required")
		return
	}

	est, err := h.estimateService.Create(c.Request.Context(), input, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, est)
}

// GetByID handles GET /api/v1/estimates/:id
func (h *EstimateHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	est, err := h.estimateService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// List handles GET /api/v1/estimates
func (h *EstimateHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	var customerID *uuid.UUID
	if s := c.Query("customer_id"); s != "" {
		parsed, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid customer_id")
			return
		}
		customerID = &parsed
	}

	estimates, total, err := h.estimateService.List(c.Request.Context(), customerID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, estimates, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateGrid handles PUT /api/v1/estimates/:id/grid
func (h *EstimateHandler) UpdateGrid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	var req struct {
		Rows []domain.Row `json:"rows"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "rows array is required")
		return
	}

	est, err := h.estimateService.UpdateGrid(c.Request.Context(), id, req.Rows)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// Delete handles DELETE /api/v1/estimates/:id
func (h *EstimateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	if err := h.estimateService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "estimate deleted"})
}

// Validate handles POST /api/v1/estimates/:id/validate
func (h *EstimateHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	rs, err := h.estimateService.Validate(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rs)
}

// GetValidation handles GET /api/v1/estimates/:id/validation
func (h *EstimateHandler) GetValidation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	rs, err := h.estimateService.GetValidation(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rs)
}

// Assemblies handles GET /api/v1/estimates/:id/assemblies
func (h *EstimateHandler) Assemblies(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	assignments, groups, err := h.estimateService.AssemblyAssignments(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"assignments": assignments, "groups": groups})
}

// Export handles GET /api/v1/estimates/:id/export?format=csv|xlsx
func (h *EstimateHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid estimate ID")
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		HandleError(c, domain.ErrInvalidExportKind)
		return
	}

	est, err := h.estimateService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	rows, err := est.Grid()
	if err != nil {
		HandleError(c, err)
		return
	}
	rs, err := h.estimateService.GetValidation(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteRows(rows, rs); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename(est.Title, "csv")))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := export.WriteXLSX(&buf, rows, rs); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename(est.Title, "xlsx")))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
