package hierarchy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulBaasithere/socializeNotion/internal/svc"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
	"github.com/AbdulBaasithere/socializeNotion/internal/validators"
)

type Handler struct {
	svc   *svc.ServiceContext
	store *Store
}

func NewHandler(sc *svc.ServiceContext, store *Store) *Handler {
	return &Handler{svc: sc, store: store}
}

func (h *Handler) CreateFolder(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "folder name is required")
		return
	}

	folder, err := h.store.CreateFolder(c, userID, req.Name, req.ParentFolderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"folder": folder})
}

// UpdateFolder handles rename and re-parent in one endpoint. A request may
// carry either or both.
func (h *Handler) UpdateFolder(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	folderID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder ID")
		return
	}

	var req validators.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil && req.ParentFolderID == nil && !req.MoveToRoot {
		utils.Error(c, http.StatusBadRequest, "nothing to update")
		return
	}

	folder, err := h.store.UpdateFolder(c, userID, folderID, FolderInput{
		Name:           req.Name,
		ParentFolderID: req.ParentFolderID,
		MoveToRoot:     req.MoveToRoot,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"folder": folder})
}

// ListFolders returns root folders, or the children of ?parent_id=.
func (h *Handler) ListFolders(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var parentID *uint
	if raw := c.Query("parent_id"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid parent_id")
			return
		}
		parentID = &id
	}

	folders, err := h.store.ListChildren(c, userID, parentID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"folders": folders})
}

func (h *Handler) Breadcrumb(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	folderID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder ID")
		return
	}

	path, err := h.store.Breadcrumb(c, userID, folderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"path": path})
}

func (h *Handler) Tree(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	tree, err := h.store.Tree(c, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"tree": tree})
}

func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	folderID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder ID")
		return
	}

	noteIDs, err := h.store.DeleteFolder(c, userID, folderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	for _, id := range noteIDs {
		h.invalidateNote(c, id)
	}
	h.invalidateUserNotes(c, userID)
	utils.Success(c, gin.H{"message": "folder deleted"})
}
