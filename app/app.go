package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"robolab/db"
	"robolab/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.SugaredLogger
	Config Config

	appSess *session.AppSessionStore
}

// Config 从环境变量读取
type Config struct {
	RedisAddr  string
	RedisPwd   string
	WebOrigin  string
	SessionTTL time.Duration

	AdminEmail    string
	AdminName     string
	StudentDomain string

	// bcrypt hashes of the configured credentials; the plain values never
	// leave loadConfig.
	AdminPasswordHash   []byte
	StudentPasswordHash []byte
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap: %v", err)
	}
	sugar := logger.Sugar()

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sugar.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Log: sugar, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	ttlSec := get("SESSION_TTL_SECONDS", "86400")
	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil {
		ttl = d
	}

	hash := func(plain string) []byte {
		h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("bcrypt: %v", err)
		}
		return h
	}

	return Config{
		RedisAddr:  get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:   os.Getenv("REDIS_PASSWORD"),
		WebOrigin:  get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL: ttl,

		AdminEmail:    strings.ToLower(get("ADMIN_EMAIL", "admin@robolab.local")),
		AdminName:     get("ADMIN_NAME", "Administrator"),
		StudentDomain: strings.ToLower(get("STUDENT_EMAIL_DOMAIN", "robolab.local")),

		AdminPasswordHash:   hash(get("ADMIN_PASSWORD", "ralab")),
		StudentPasswordHash: hash(get("STUDENT_PASSWORD", "robotics")),
	}
}
