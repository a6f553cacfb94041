package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogpilot/blogpilot/internal/storage"
)

const syncLogLimit = 50

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	id, err := s.db.CreateUser(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "username": req.Username})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	settings, err := s.db.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return
	}

	// Secrets stay out of responses.
	settings.WordPressAppPassword = ""
	settings.OpenAIAPIKey = ""

	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	var settings storage.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	settings.UserID = userID
	if settings.PromptType == "" {
		settings.PromptType = "default"
	}

	if settings.PostStatus == "" {
		settings.PostStatus = "publish"
	}

	if err := s.db.SaveSettings(c.Request.Context(), settings); err != nil {
		respondError(c, err)

		return
	}

	// A changed key or URL invalidates cached titles.
	s.guard.InvalidateUser(userID)

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// handleSync runs a WordPress pull for one user on demand.
func (s *Server) handleSync(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	settings, err := s.db.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return
	}

	if err := s.syncer.SyncUser(c.Request.Context(), userID, settings); err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"synced": true})
}

func (s *Server) handleBackup(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	path, err := s.backups.BackupUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) handleSyncLog(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	entries, err := s.db.RecentSyncLog(c.Request.Context(), userID, syncLogLimit)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
