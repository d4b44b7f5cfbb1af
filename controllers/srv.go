// controllers/srv.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"robolab/app"
	"robolab/db"
	"robolab/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Srv struct {
	Repo    *db.Repo
	AppSess *session.AppSessionStore
	Log     *zap.SugaredLogger
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		AppSess: a.AppSessions(),
		Log:     a.Log,
		Cfg:     a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// issueSession 登录成功：登录快照 + 会话记录 + Redis 会话 + Cookie
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, role, ip, ua string) error {
	now := time.Now().UTC()
	if err := s.Repo.TouchUserLogin(ctx, userID, now); err != nil {
		return err
	}
	u, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.Repo.CreateLoginSession(ctx, u, ip, ua, now); err != nil {
		return err
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID, role); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// httpError maps the repo error taxonomy to status codes in one place.
func httpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrInsufficientStock),
		errors.Is(err, db.ErrInvalidTransition),
		errors.Is(err, db.ErrInvalidQuantity):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		// Driver and storage errors are not for clients.
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
	}
}

func currentUserID(c *gin.Context) string {
	v, _ := c.Get("userID")
	uid, _ := v.(string)
	return uid
}

func currentUserName(c *gin.Context) string {
	v, _ := c.Get("userName")
	name, _ := v.(string)
	return name
}
