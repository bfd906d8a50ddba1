package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/sirupsen/logrus"
)

func (s *Server) listFavorites(c *gin.Context) {
	set, err := s.favorites.Open(c.Request.Context(), c.GetString(clientIDKey))
	if err != nil {
		s.logger.WithError(err).Error("Failed to load favorites")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ids": set.IDs()})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}

	clientID := c.GetString(clientIDKey)
	set, err := s.favorites.Open(c.Request.Context(), clientID)
	if err != nil {
		metrics.FavoritesToggles.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("Failed to load favorites")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites unavailable"})
		return
	}

	favorite, err := set.Toggle(id)
	if err != nil {
		metrics.FavoritesToggles.WithLabelValues("error").Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"client_id": clientID,
			"coin_id":   id,
		}).Error("Failed to toggle favorite")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "favorites unavailable"})
		return
	}

	metrics.FavoritesToggles.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"favorite": favorite,
		"ids":      set.IDs(),
	})
}
