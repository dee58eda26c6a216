package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.audit.RecentAudit(c.Request.Context(), auditPageSize)
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "audit_list.html", gin.H{"Logs": logs})
}

func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.log.Error().Err(err).Msg("health check failed")
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
