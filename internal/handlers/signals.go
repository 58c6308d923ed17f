package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alphawatch/internal/models"
	"alphawatch/internal/store"
)

// Handler serves the read API over the signal store.
type Handler struct {
	store *store.GormStore
}

func NewHandler(st *store.GormStore) *Handler {
	return &Handler{store: st}
}

// pagination reads page/page_size query params with the usual defaults.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ListSignals returns analyzed signals, newest first, with pagination and
// an optional tweeted filter.
func (h *Handler) ListSignals(c *gin.Context) {
	page, pageSize := pagination(c)

	var tweeted *bool
	if raw := c.Query("tweeted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tweeted filter"})
			return
		}
		tweeted = &v
	}

	signals, total, err := h.store.ListSignals(c.Request.Context(), page, pageSize, tweeted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if signals == nil {
		signals = []models.AlphaSignal{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      signals,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetSignal returns a single signal by token mint.
func (h *Handler) GetSignal(c *gin.Context) {
	mint := c.Param("mint")

	signal, err := h.store.GetSignal(c.Request.Context(), mint)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, signal)
}
