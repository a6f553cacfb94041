package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const similarTopicsReturned = 10

type checkRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// handleDedupCheck runs the duplicate pipeline without registering the topic,
// so callers can probe candidates freely.
func (s *Server) handleDedupCheck(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	result, err := s.guard.CheckOnly(c.Request.Context(), userID, req.Topic)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDedupStats(c *gin.Context) {
	stats := s.store.Stats()

	c.JSON(http.StatusOK, gin.H{
		"threshold": s.engine.Threshold(),
		"stats":     stats,
	})
}

// handleSimilar ranks stored topics by similarity to the given text.
func (s *Server) handleSimilar(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	provider, err := s.embFactory.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return
	}

	scores, err := s.engine.RankText(c.Request.Context(), req.Topic, provider)
	if err != nil {
		respondError(c, err)

		return
	}

	if len(scores) > similarTopicsReturned {
		scores = scores[:similarTopicsReturned]
	}

	c.JSON(http.StatusOK, gin.H{"topic": req.Topic, "matches": scores, "threshold": s.engine.Threshold()})
}
