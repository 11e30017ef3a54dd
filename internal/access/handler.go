package access

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulBaasithere/socializeNotion/internal/svc"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
	"github.com/AbdulBaasithere/socializeNotion/internal/validators"
)

type Handler struct {
	svc     *svc.ServiceContext
	service *Service
}

func NewHandler(sc *svc.ServiceContext, service *Service) *Handler {
	return &Handler{svc: sc, service: service}
}

func (h *Handler) Grant(c *gin.Context) {
	granterID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}

	var req validators.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "username and permission level are required")
		return
	}

	grant, err := h.service.Grant(c, noteID, granterID, req.Username, req.PermissionLevel)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.invalidateNote(c, noteID)
	utils.Success(c, gin.H{"collaboration": grant})
}

func (h *Handler) Revoke(c *gin.Context) {
	granterID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}
	targetID, err := utils.ParseID(c.Param("userId"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.service.Revoke(c, noteID, granterID, targetID); err != nil {
		utils.Fail(c, err)
		return
	}

	h.invalidateNote(c, noteID)
	utils.Success(c, gin.H{"message": "collaborator removed"})
}

func (h *Handler) ListCollaborators(c *gin.Context) {
	requesterID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}

	views, err := h.service.ListCollaborators(c, noteID, requesterID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"collaborators": views})
}

func (h *Handler) SharedWithMe(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	page := utils.PageFromQuery(c)
	notes, hasMore, err := h.service.SharedWithMe(c, userID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"notes": notes, "page": page, "has_more": hasMore})
}

func (h *Handler) SharedByMe(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	page := utils.PageFromQuery(c)
	notes, hasMore, err := h.service.SharedByMe(c, userID, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"notes": notes, "page": page, "has_more": hasMore})
}

func (h *Handler) invalidateNote(c *gin.Context, noteID uint) {
	if h.svc.Cache == nil {
		return
	}
	_ = h.svc.Cache.Del(c, utils.NoteCacheKey(noteID))
}
