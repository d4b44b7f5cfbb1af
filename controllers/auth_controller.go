package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"robolab/app"
	"robolab/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/login
//
// One shared lab password per role, checked against the bcrypt hash from
// config. Students with a lab-domain address are registered on first login.
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash := ac.Cfg.StudentPasswordHash
	if email == ac.Cfg.AdminEmail {
		hash = ac.Cfg.AdminPasswordHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), email)
	if errors.Is(err, db.ErrNotFound) {
		// Auto-registration is for students only; the admin account is
		// created at bootstrap, never here.
		if email == ac.Cfg.AdminEmail || !strings.HasSuffix(email, "@"+ac.Cfg.StudentDomain) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
			return
		}
		u, err = ac.Repo.FindOrCreateStudent(c.Request.Context(), email, nameFromEmail(email), uuid.NewString(), time.Now().UTC())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID, u.Role, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ac.Log.Infow("login", "user", u.Email, "role", u.Role)
	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	uid := currentUserID(c)
	if uid != "" {
		_ = ac.Repo.EndUserSessions(c.Request.Context(), uid, time.Now().UTC())
	}
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	secure := strings.HasPrefix(ac.Cfg.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/whoami
func (ac *AuthController) Whoami(c *gin.Context) {
	u, err := ac.Repo.FindUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// "jane.doe@lab" → "Jane Doe"
func nameFromEmail(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	parts := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' || r == '-' })
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}
