package controllers

import (
	"net/http"

	"robolab/app"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// GET /api/notifications
func (nc *NotificationController) List(c *gin.Context) {
	uid := currentUserID(c)
	ns, err := nc.Repo.ListUserNotifications(c.Request.Context(), uid)
	if err != nil {
		httpError(c, err)
		return
	}
	unread, err := nc.Repo.CountUnreadNotifications(c.Request.Context(), uid)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"notifications": ns, "unread": unread})
}

// POST /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.Repo.MarkNotificationRead(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
