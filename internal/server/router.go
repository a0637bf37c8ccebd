package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/shoping-cart/pkg/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Registrar mounts a bounded context's routes under the authenticated group.
type Registrar interface {
	Register(r gin.IRouter)
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	Log       *slog.Logger
	JWTSecret string
	Handlers  []Registrar
	Ready     map[string]ReadyCheck
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(opts.Log))

	cc := cors.DefaultConfig()
	cc.AllowAllOrigins = true
	cc.AddAllowHeaders("Authorization")
	r.Use(cors.New(cc))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/readyz", readyz(opts.Ready))

	api := r.Group("/api", auth.Middleware(opts.JWTSecret))
	for _, h := range opts.Handlers {
		h.Register(api)
	}
	return r
}

func readyz(checks map[string]ReadyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failed := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if uid := auth.UserID(c); uid != "" {
			attrs = append(attrs, slog.String("user_id", uid))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("err", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.ErrorContext(c.Request.Context(), "http request", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "http request", attrs...)
		}
	}
}
