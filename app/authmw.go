package app

import (
	"net/http"

	"robolab/db"
	"robolab/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在，角色只查一次放进 Context
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("userID", u.ID)
		c.Set("userName", u.Name)
		c.Set("userEmail", u.Email)
		c.Set("isAdmin", u.IsAdmin())

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("isAdmin")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if isAdmin, _ := v.(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
