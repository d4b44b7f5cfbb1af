package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatsController struct{ *Srv }

func NewStatsController(s *Srv) *StatsController { return &StatsController{Srv: s} }

// GET /api/stats  (admin)
func (sc *StatsController) Get(c *gin.Context) {
	stats, err := sc.Repo.SystemStats(c.Request.Context(), time.Now().UTC())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
