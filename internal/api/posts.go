package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogpilot/blogpilot/internal/generate"
	"github.com/blogpilot/blogpilot/internal/llm"
)

type generateRequest struct {
	PromptType string `json:"prompt_type"`
	// Topic, when set, skips suggestion and writes about the given topic.
	Topic string `json:"topic"`
}

// bindGenerateRequest reads the optional request body. An absent body means
// defaults.
func (s *Server) bindGenerateRequest(c *gin.Context) (generateRequest, bool) {
	var req generateRequest

	if c.Request.ContentLength == 0 {
		return req, true
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return req, false
	}

	return req, true
}

func (s *Server) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})

		return 0, false
	}

	return id, true
}

func (s *Server) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})

		return 0, false
	}

	return id, true
}

// promptType resolves the effective prompt type: the request value when
// given, the user's saved preference otherwise.
func (s *Server) promptType(c *gin.Context, userID int64, requested string) (llm.PromptType, bool) {
	if requested != "" {
		switch pt := llm.PromptType(requested); pt {
		case llm.PromptDefault, llm.PromptTech, llm.PromptGuide:
			return pt, true
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown prompt type: " + requested})

			return "", false
		}
	}

	settings, err := s.db.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return "", false
	}

	return llm.PromptType(settings.PromptType), true
}

func (s *Server) handleGenerate(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	req, ok := s.bindGenerateRequest(c)
	if !ok {
		return
	}

	promptType, ok := s.promptType(c, userID, req.PromptType)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var (
		post generate.Post
		err  error
	)

	if req.Topic != "" {
		post, err = s.generator.GenerateFromTopic(ctx, userID, promptType, req.Topic)
	} else {
		post, err = s.generator.Generate(ctx, userID, promptType)
	}

	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) handlePreview(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	req, ok := s.bindGenerateRequest(c)
	if !ok {
		return
	}

	promptType, ok := s.promptType(c, userID, req.PromptType)
	if !ok {
		return
	}

	topic, err := s.generator.SuggestTopic(c.Request.Context(), userID, promptType)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": topic, "prompt_type": promptType})
}

func (s *Server) handleListPosts(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	posts, err := s.db.ListPosts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

func (s *Server) handleGetPost(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	postID, ok := s.postID(c)
	if !ok {
		return
	}

	post, err := s.db.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, post)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	postID, ok := s.postID(c)
	if !ok {
		return
	}

	if err := s.db.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": postID})
}

func (s *Server) handlePublish(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	postID, ok := s.postID(c)
	if !ok {
		return
	}

	result, err := s.publisher.Publish(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleUncoveredTopics(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	topics, err := generate.UncoveredTopics(c.Request.Context(), s.db, userID)
	if err != nil {
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics, "count": len(topics)})
}
