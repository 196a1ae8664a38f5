package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/driftline/chainwatch/internal/domain"
	chainsync "github.com/driftline/chainwatch/internal/sync"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// MonitorChain registers a chain for synchronization
	// POST /api/v1/maps/:map_id/monitor
	MonitorChain(c *gin.Context)

	// StopMonitoring stops synchronizing a chain
	// DELETE /api/v1/maps/:map_id/monitor
	StopMonitoring(c *gin.Context)

	// ForceSync triggers an immediate snapshot reconciliation for a chain
	// POST /api/v1/maps/:map_id/sync
	ForceSync(c *gin.Context)

	// ForceSyncAll triggers an immediate snapshot reconciliation for every
	// monitored chain
	// POST /api/v1/sync
	ForceSyncAll(c *gin.Context)

	// GetStatus reports the state of all monitored chains
	// GET /api/v1/status
	GetStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// MonitorChainRequest is the body of a monitor request
type MonitorChainRequest struct {
	CorporationID int64 `json:"corporation_id"`
}

// handler implements the Handler interface
type handler struct {
	coordinator *chainsync.Coordinator
}

// NewHandler creates a new REST API handler bound to the sync coordinator
func NewHandler(coordinator *chainsync.Coordinator) Handler {
	return &handler{coordinator: coordinator}
}

func parseMapID(c *gin.Context) (int64, bool) {
	mapID, err := strconv.ParseInt(c.Param("map_id"), 10, 64)
	if err != nil || mapID <= 0 {
		respondBadRequest(c, "Invalid map_id")
		return 0, false
	}
	return mapID, true
}

// MonitorChain registers a chain for synchronization
func (h *handler) MonitorChain(c *gin.Context) {
	mapID, ok := parseMapID(c)
	if !ok {
		return
	}

	var req MonitorChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.CorporationID <= 0 {
		respondValidationError(c, "corporation_id is required")
		return
	}

	if err := h.coordinator.MonitorChain(c.Request.Context(), mapID, req.CorporationID); err != nil {
		respondInternalError(c, err, "Failed to monitor chain")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"map_id": mapID, "monitoring": true})
}

// StopMonitoring stops synchronizing a chain
func (h *handler) StopMonitoring(c *gin.Context) {
	mapID, ok := parseMapID(c)
	if !ok {
		return
	}

	if err := h.coordinator.StopMonitoring(c.Request.Context(), mapID); err != nil {
		respondInternalError(c, err, "Failed to stop monitoring chain")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"map_id": mapID, "monitoring": false})
}

// ForceSync triggers an immediate snapshot reconciliation for a chain
func (h *handler) ForceSync(c *gin.Context) {
	mapID, ok := parseMapID(c)
	if !ok {
		return
	}

	if err := h.coordinator.ForceSync(c.Request.Context(), mapID); err != nil {
		if errors.Is(err, domain.ErrChainNotMonitored) {
			respondNotFound(c, "Chain is not monitored")
			return
		}
		respondInternalError(c, err, "Failed to force sync")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"map_id": mapID, "sync": "scheduled"})
}

// ForceSyncAll triggers an immediate snapshot reconciliation for every monitored chain
func (h *handler) ForceSyncAll(c *gin.Context) {
	if err := h.coordinator.ForceSyncAll(c.Request.Context()); err != nil {
		respondInternalError(c, err, "Failed to force sync")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"sync": "scheduled"})
}

// GetStatus reports the state of all monitored chains
func (h *handler) GetStatus(c *gin.Context) {
	status, err := h.coordinator.Status(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to get status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "chainwatch-sync-engine",
	})
}
