package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alphawatch/internal/models"
)

// ListFollowEdges returns the recorded follow edges for one tracked
// account, newest first.
func (h *Handler) ListFollowEdges(c *gin.Context) {
	handle := c.Param("handle")
	page, pageSize := pagination(c)

	edges, total, err := h.store.ListFollowEdges(c.Request.Context(), handle, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if edges == nil {
		edges = []models.FollowEdge{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      edges,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
