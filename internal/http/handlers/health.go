package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency liveness.
type HealthHandler struct {
	db             *gorm.DB
	embedderReady  bool
	plannerReady   bool
}

func NewHealthHandler(db *gorm.DB, embedderReady, plannerReady bool) *HealthHandler {
	return &HealthHandler{db: db, embedderReady: embedderReady, plannerReady: plannerReady}
}

// HealthCheck reports whether the process is up at all.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Readiness reports DB connectivity and whether the embedding/planner
// clients were configured at boot — ambient operability the retrieval
// core itself has no opinion on.
func (h *HealthHandler) Readiness(c *gin.Context) {
	dbOK := true
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			dbOK = false
		}
	} else {
		dbOK = false
	}

	status := http.StatusOK
	if !dbOK || !h.embedderReady || !h.plannerReady {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"db":       dbOK,
		"embedder": h.embedderReady,
		"planner":  h.plannerReady,
	})
}
