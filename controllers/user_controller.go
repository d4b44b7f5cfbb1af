package controllers

import (
	"net/http"
	"strconv"

	"robolab/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20  (admin)
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id  (admin)
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// DELETE /api/users/:id  (admin)
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}

	// 不允许删除自己，避免锁死
	if currentUserID(c) == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		httpError(c, err)
		return
	}
	if target.IsAdmin() {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		httpError(c, err)
		return
	}
	// 撤销该用户的所有登录会话
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
