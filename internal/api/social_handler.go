package api

import (
	"errors"
	"fmt"
	"net/http"

	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialHandler holds the social feed service dependency.
type SocialHandler struct {
	socialService service.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// --- Request Structs ---

type CreatePostRequest struct {
	Content   string   `json:"content" binding:"required"`
	MediaKeys []string `json:"mediaKeys"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// --- Handler Methods ---

// CreatePost publishes a new post for the authenticated user.
func (h *SocialHandler) CreatePost(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	post, err := h.socialService.CreatePost(c.Request.Context(), userID, req.Content, req.MediaKeys)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPostContent) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while creating post")
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Feed returns the newest posts from users the caller follows.
func (h *SocialHandler) Feed(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	posts, err := h.socialService.Feed(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while fetching feed")
		}
		return
	}

	c.JSON(http.StatusOK, posts)
}

// PostsByUser returns a single user's posts, newest first.
func (h *SocialHandler) PostsByUser(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	posts, err := h.socialService.PostsByUser(c.Request.Context(), authorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Server error while fetching posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID.
func (h *SocialHandler) GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	post, err := h.socialService.GetPost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while fetching post")
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// ToggleLike likes the post, or unlikes it if the caller already liked it.
func (h *SocialHandler) ToggleLike(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	post, err := h.socialService.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while toggling like")
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// AddComment appends a comment to the post.
func (h *SocialHandler) AddComment(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	post, err := h.socialService.AddComment(c.Request.Context(), postID, userID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrEmptyComment) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error while adding comment")
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ToggleFollow follows the target user, or unfollows them if the caller
// already follows them.
func (h *SocialHandler) ToggleFollow(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	status, err := h.socialService.ToggleFollow(c.Request.Context(), userID, targetID)
	if err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error during follow action")
		}
		return
	}

	c.JSON(http.StatusOK, status)
}

// DiscoverUsers suggests accounts the caller does not follow yet.
func (h *SocialHandler) DiscoverUsers(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	users, err := h.socialService.DiscoverUsers(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Server error discovering users")
		}
		return
	}

	c.JSON(http.StatusOK, users)
}

// RequestMediaUploadURL returns a presigned PUT URL for post media.
func (h *SocialHandler) RequestMediaUploadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.socialService.RequestMediaUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
