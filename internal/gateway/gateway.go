package gateway

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Gateway re-exposes read-only endpoints of the core API to a downstream
// consumer. It forwards GETs verbatim and translates upstream failures
// into 502 responses.
type Gateway struct {
	upstreamURL string
	client      *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// New creates a gateway forwarding to upstreamURL
func New(upstreamURL string, rateLimitRPS float64) *Gateway {
	return &Gateway{
		upstreamURL: strings.TrimRight(upstreamURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(rateLimitRPS), int(rateLimitRPS)),
		logger:      util.GetLogger(),
	}
}

// SetupRoutes sets up the gateway routes
func (g *Gateway) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(g.rateLimitMiddleware())

	router.GET("/health", g.healthCheck)

	router.GET("/api/products", g.proxy("/api/v1/items"))
	router.GET("/api/orders", g.proxy("/api/v1/orders"))
	router.GET("/api/revenue", g.proxy("/api/v1/reports/revenue"))
	router.GET("/api/highest-selling-product", g.proxy("/api/v1/reports/top-selling"))
	router.GET("/api/least-desirable-product", g.proxy("/api/v1/reports/least-selling"))
}

func (g *Gateway) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Gateway is running",
		"status":  "success",
	})
}

// proxy returns a handler forwarding the request to the given upstream path,
// carrying the caller's query string along
func (g *Gateway) proxy(upstreamPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := g.upstreamURL + upstreamPath
		if raw := c.Request.URL.RawQuery; raw != "" {
			target += "?" + raw
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp, err := g.client.Do(req)
		if err != nil {
			g.logger.Error("Upstream request failed",
				zap.String("target", target), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{
				"error": fmt.Sprintf("Connection error: %v", err),
			})
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read upstream response"})
			return
		}

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(resp.StatusCode, contentType, body)
	}
}

func (g *Gateway) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
