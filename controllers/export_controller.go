package controllers

import (
	"fmt"
	"time"

	"robolab/db"
	"robolab/export"

	"github.com/gin-gonic/gin"
)

type ExportController struct{ *Srv }

func NewExportController(s *Srv) *ExportController { return &ExportController{Srv: s} }

// GET /api/export  (admin), full report as an .xlsx attachment
func (ec *ExportController) Download(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	stats, err := ec.Repo.SystemStats(ctx, now)
	if err != nil {
		httpError(c, err)
		return
	}
	components, err := ec.Repo.ListComponents(ctx)
	if err != nil {
		httpError(c, err)
		return
	}
	requests, err := ec.Repo.ListRequests(ctx, db.RequestFilter{})
	if err != nil {
		httpError(c, err)
		return
	}
	users, err := ec.Repo.ListAllUsers(ctx)
	if err != nil {
		httpError(c, err)
		return
	}
	sessions, err := ec.Repo.ListLoginSessions(ctx)
	if err != nil {
		httpError(c, err)
		return
	}

	wb, err := export.BuildWorkbook(export.Data{
		Stats:      stats,
		Components: components,
		Requests:   requests,
		Users:      users,
		Sessions:   sessions,
		Now:        now,
	})
	if err != nil {
		httpError(c, err)
		return
	}

	filename := fmt.Sprintf("lab-inventory-%s.xlsx", now.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := wb.WriteTo(c.Writer); err != nil {
		ec.Log.Errorw("export write failed", "err", err)
	}
}
