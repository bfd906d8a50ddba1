package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	clientCookie    = "cs_client"
	clientIDKey     = "client_id"
	clientCookieAge = 365 * 24 * 60 * 60
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}

func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// clientID scopes favorites to an anonymous browser. A missing or invalid
// cookie gets a fresh id.
func clientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(clientCookie)
		if err != nil || !validClientID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(clientCookie, id, clientCookieAge, "/", "", false, true)
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

func validClientID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
