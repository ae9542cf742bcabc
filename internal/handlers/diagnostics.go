package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tsunami_usgs/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListFailed  = "failed to load diagnostics"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List fetch attempts
// @Description  Diagnostic trail of feed runs. Date-only 'to' is inclusive of the whole day.
// @Tags         diagnostics
// @Produce      json
// @Param        from     query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to       query   string  false  "End of range (same formats)"
// @Param        outcome  query   string  false  "Outcome"  Enums(DISPLAYED,TRANSPORT_ERROR,TIMEOUT,MALFORMED_URL,HTTP_STATUS,PARSE_ERROR,EMPTY_RESULT,MISSING_FIELD)
// @Success      200   {object}  map[string]interface{}  "count, attempts"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/diagnostics [get]
// @Security     BearerAuth
func (h *Handler) getDiagnostics(c *gin.Context) {
	var (
		f   = service.DiagnosticFilter{Outcome: c.Query("outcome")}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}

	attempts, err := h.services.Diagnostics.List(c.Request.Context(), f)
	if err != nil {
		if service.IsFilterError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListFailed, "diagnostics_list_failed", err,
			"from", f.From, "to", f.To, "outcome", f.Outcome)
		return
	}
	if h.log != nil {
		h.log.Debugw("diagnostics_listed", "operator_id", operatorID(c), "count", len(attempts))
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(attempts),
		"attempts": attempts,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
