package social

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulBaasithere/socializeNotion/internal/models"
	"github.com/AbdulBaasithere/socializeNotion/internal/svc"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
	"github.com/AbdulBaasithere/socializeNotion/internal/validators"
)

type Handler struct {
	svc    *svc.ServiceContext
	engine *Engine
}

func NewHandler(sc *svc.ServiceContext, engine *Engine) *Handler {
	return &Handler{svc: sc, engine: engine}
}

func (h *Handler) Follow(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	targetID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.engine.Follow(c, userID, targetID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"following": true})
}

func (h *Handler) Unfollow(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	targetID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.engine.Unfollow(c, userID, targetID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"following": false})
}

func (h *Handler) Followers(c *gin.Context) {
	h.userListing(c, h.engine.Followers)
}

func (h *Handler) Following(c *gin.Context) {
	h.userListing(c, h.engine.Following)
}

func (h *Handler) userListing(c *gin.Context, list func(ctx context.Context, userID, viewerID uint, page int) ([]models.UserBrief, bool, error)) {
	viewerID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	userID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	page := utils.PageFromQuery(c)
	users, hasMore, err := list(c, userID, viewerID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"users": users, "page": page, "has_more": hasMore})
}

func (h *Handler) Discover(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	page := utils.PageFromQuery(c)
	users, hasMore, err := h.engine.Discover(c, userID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"users": users, "page": page, "has_more": hasMore})
}

func (h *Handler) SearchUsers(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	term := c.Query("q")
	if term == "" {
		utils.Error(c, http.StatusBadRequest, "search term is required")
		return
	}

	page := utils.PageFromQuery(c)
	users, hasMore, err := h.engine.SearchUsers(c, userID, term, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"users": users, "page": page, "has_more": hasMore})
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "content type is required")
		return
	}

	post, err := h.engine.CreatePost(c, userID, req.ContentType, req.Caption, req.MediaURL)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"post": post})
}

func (h *Handler) GetPost(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.engine.GetPost(c, postID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"post": post})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req validators.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.engine.UpdatePost(c, postID, userID, req.Caption, req.MediaURL)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"post": post})
}

func (h *Handler) DeletePost(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	if err := h.engine.DeletePost(c, postID, userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "post deleted"})
}

func (h *Handler) UserPosts(c *gin.Context) {
	viewerID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	authorID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	page := utils.PageFromQuery(c)
	posts, hasMore, err := h.engine.UserPosts(c, authorID, viewerID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"posts": posts, "page": page, "has_more": hasMore})
}

func (h *Handler) Feed(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	page := utils.PageFromQuery(c)
	posts, hasMore, err := h.engine.Feed(c, userID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"posts": posts, "page": page, "has_more": hasMore})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, liked, err := h.engine.ToggleLike(c, userID, postID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"liked": liked, "likes_count": post.LikesCount})
}

func (h *Handler) Unlike(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.engine.Unlike(c, userID, postID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"liked": false, "likes_count": post.LikesCount})
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req validators.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "comment content is required")
		return
	}

	comment, err := h.engine.AddComment(c, userID, postID, req.Content)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"comment": comment})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	commentID, err := utils.ParseID(c.Param("comment_id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid comment ID")
		return
	}

	if err := h.engine.DeleteComment(c, commentID, userID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "comment deleted"})
}

func (h *Handler) ListComments(c *gin.Context) {
	if _, err := utils.GetUserID(c); err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid post ID")
		return
	}

	page := utils.PageFromQuery(c)
	comments, hasMore, err := h.engine.ListComments(c, postID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"comments": comments, "page": page, "has_more": hasMore})
}
