package app

import (
	"time"

	"robolab/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen 节流写 last_seen，避免每个请求都打数据库
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("userID")
		if !ok {
			c.Next()
			return
		}
		uid, _ := v.(string)
		if uid == "" {
			c.Next()
			return
		}

		key := "lab:lastseen:" + uid
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchUserSeen(c, uid) // 忽略错误，不阻塞请求
		}
		c.Next()
	}
}
