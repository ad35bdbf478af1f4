package http

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"blog-service/internal/auth"
	"blog-service/internal/metrics"
	"blog-service/internal/service"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	posts   service.PostService
	tokens  *auth.TokenIssuer
	logger  logrus.FieldLogger
	origins []string
}

func NewHandler(users service.UserService, posts service.PostService, tokens *auth.TokenIssuer, logger logrus.FieldLogger, origins []string) *Handler {
	registerValidators()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:   users,
		posts:   posts,
		tokens:  tokens,
		logger:  logger,
		origins: origins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), h.accessLogMiddleware(), metricsMiddleware(), h.corsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", h.requireAuth(), h.me)
		authGroup.DELETE("/me", h.requireAuth(), h.deleteMe)

		api.GET("/posts", h.listPosts)
		api.GET("/posts/:id", h.getPost)
		api.POST("/posts", h.requireAuth(), h.createPost)
		api.PUT("/posts/:id", h.requireAuth(), h.updatePost)
		api.PATCH("/posts/:id", h.requireAuth(), h.updatePost)
		api.DELETE("/posts/:id", h.requireAuth(), h.deletePost)
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (h *Handler) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ctxRequestID),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case slices.Contains(h.origins, "*"):
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(h.origins, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
