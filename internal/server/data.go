package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/aggregate"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/export"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/gin-gonic/gin"
)

const noticeDataCleared = "All data was removed."

func (h *httpHandler) handleCategoryStats(c *gin.Context) {
	field, err := aggregate.ParseField(c.DefaultQuery("field", string(aggregate.FieldCount)))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_field", "field must be count or minutes.")
		return
	}
	distribution := aggregate.CountByCategory(h.training.Workouts(c.Request.Context()), field)
	c.JSON(http.StatusOK, gin.H{
		"field":   field,
		"total":   distribution.Total(),
		"entries": distribution.Sorted(),
	})
}

func (h *httpHandler) handleSummary(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, aggregate.Summarize(
		h.training.Workouts(ctx),
		h.training.Feedbacks(ctx),
		h.training.Evaluations(ctx),
	))
}

// attachmentSink streams an artifact as the response body.
func attachmentSink(c *gin.Context) export.Sink {
	return export.SinkFunc(func(_ context.Context, artifact export.Artifact) error {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		c.Data(http.StatusOK, artifact.MIMEType+"; charset=utf-8", artifact.Content)
		return nil
	})
}

func (h *httpHandler) handleExportJSON(c *gin.Context) {
	if err := h.exporter.ExportJSON(c.Request.Context(), attachmentSink(c)); err != nil {
		writeError(c, http.StatusInternalServerError, "export_failed", "Export failed.")
	}
}

func (h *httpHandler) handleExportCSV(c *gin.Context) {
	err := h.exporter.ExportCSV(c.Request.Context(), attachmentSink(c))
	switch {
	case err == nil:
	case errors.Is(err, export.ErrNoWorkouts):
		writeError(c, http.StatusConflict, "no_workouts", export.MessageNoWorkouts)
	default:
		writeError(c, http.StatusInternalServerError, "export_failed", "Export failed.")
	}
}

func (h *httpHandler) handleImport(c *gin.Context) {
	document, err := h.exporter.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		if errors.Is(err, export.ErrInvalidDocument) {
			writeError(c, http.StatusBadRequest, "invalid_document", "The file is not a GripMetrics export.")
			return
		}
		writeError(c, http.StatusInternalServerError, "import_failed", "Import failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workouts":    len(document.Workouts),
		"feedbacks":   len(document.Feedbacks),
		"evaluations": len(document.Evaluations),
	})
}

// handleClearData wipes every collection. The caller must pass confirm=true.
func (h *httpHandler) handleClearData(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed {
		writeError(c, http.StatusBadRequest, "confirmation_required", "Pass confirm=true to delete all data.")
		return
	}
	if err := h.store.ClearAll(c.Request.Context()); err != nil {
		h.respondFailure(c, "clear_data", err)
		return
	}
	h.notices.Notify(noticeDataCleared, notices.KindSuccess)
	c.Status(http.StatusNoContent)
}
