package hierarchy

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbdulBaasithere/socializeNotion/internal/models"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
	"github.com/AbdulBaasithere/socializeNotion/internal/validators"
)

const noteCacheTTL = 10 * time.Minute

// noteView is the wire shape of a note: the stored row with its tag string
// decoded and the caller's effective permission attached.
type noteView struct {
	models.Note
	TagList        []string `json:"tag_list"`
	UserPermission string   `json:"user_permission,omitempty"`
}

func (h *Handler) CreateNote(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "note title is required")
		return
	}

	note, err := h.store.CreateNote(c, userID, req.Title, req.Content, req.Tags, req.FolderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.invalidateUserNotes(c, userID)
	utils.Success(c, gin.H{"note": noteView{Note: *note, TagList: note.TagList()}})
}

func (h *Handler) GetNote(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}

	if note, ok := h.cachedNote(c, noteID); ok {
		// The cache holds the row only; access is still re-checked per caller.
		if note.OwnerID != userID {
			if err := h.store.perms.CanView(c, noteID, userID); err != nil {
				utils.Fail(c, err)
				return
			}
		}
		h.respondNote(c, note, userID)
		return
	}

	note, err := h.store.GetNote(c, noteID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	h.cacheNote(c, note)
	h.respondNote(c, note, userID)
}

func (h *Handler) UpdateNote(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}

	var req validators.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := NoteInput{
		Title:      req.Title,
		Content:    req.Content,
		FolderID:   req.FolderID,
		MoveToRoot: req.MoveToRoot,
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
		if in.Tags == nil {
			in.Tags = []string{}
		}
	}

	note, err := h.store.UpdateNote(c, noteID, userID, in)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.invalidateNote(c, noteID)
	h.invalidateUserNotes(c, note.OwnerID)
	h.respondNote(c, note, userID)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	noteID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid note ID")
		return
	}

	if err := h.store.DeleteNote(c, noteID, userID); err != nil {
		utils.Fail(c, err)
		return
	}

	h.invalidateNote(c, noteID)
	h.invalidateUserNotes(c, userID)
	utils.Success(c, gin.H{"message": "note deleted"})
}

// ListNotes returns the caller's notes in ?folder_id=, or the unfiled ones
// without it.
func (h *Handler) ListNotes(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var folderID *uint
	scope := "root"
	if raw := c.Query("folder_id"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid folder_id")
			return
		}
		folderID = &id
		scope = "folder:" + raw
	}

	// Delete-on-write list cache: written here, cleared by every mutation
	// through invalidateUserNotes.
	key := utils.UserNotesCacheKey(userID, scope)
	if raw, ok := h.cachedPayload(c, key); ok {
		utils.Success(c, gin.H{"notes": raw})
		return
	}

	notes, err := h.store.ListNotes(c, userID, folderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	views := noteViews(notes)
	h.cachePayload(c, key, views)
	utils.Success(c, gin.H{"notes": views})
}

func (h *Handler) SearchNotes(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	q := SearchQuery{
		Text: c.Query("q"),
		Tag:  c.Query("tag"),
		Page: utils.PageFromQuery(c),
	}
	if raw := c.Query("folder_id"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid folder_id")
			return
		}
		q.FolderID = &id
	}

	notes, hasMore, err := h.store.Search(c, userID, q)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{
		"notes":    noteViews(notes),
		"page":     q.Page,
		"has_more": hasMore,
	})
}

func (h *Handler) respondNote(c *gin.Context, note *models.Note, userID uint) {
	view := noteView{Note: *note, TagList: note.TagList()}
	if level, err := h.store.perms.LevelFor(c, note.ID, userID); err == nil {
		view.UserPermission = level
	}
	utils.Success(c, gin.H{"note": view})
}

func noteViews(notes []models.Note) []noteView {
	views := make([]noteView, len(notes))
	for i := range notes {
		views[i] = noteView{Note: notes[i], TagList: notes[i].TagList()}
	}
	return views
}

func (h *Handler) cachedNote(c *gin.Context, noteID uint) (*models.Note, bool) {
	if h.svc.Cache == nil {
		return nil, false
	}
	raw, err := h.svc.Cache.Get(c, utils.NoteCacheKey(noteID))
	if err != nil || raw == "" {
		return nil, false
	}
	var note models.Note
	if err := json.Unmarshal([]byte(raw), &note); err != nil {
		return nil, false
	}
	return &note, true
}

func (h *Handler) cacheNote(c *gin.Context, note *models.Note) {
	if h.svc.Cache == nil {
		return
	}
	raw, err := json.Marshal(note)
	if err != nil {
		return
	}
	if err := h.svc.Cache.SetWithRandomTTL(c, utils.NoteCacheKey(note.ID), string(raw), noteCacheTTL); err != nil {
		zap.L().Warn("failed to cache note", zap.Uint("note_id", note.ID), zap.Error(err))
	}
}

func (h *Handler) cachedPayload(c *gin.Context, key string) (json.RawMessage, bool) {
	if h.svc.Cache == nil {
		return nil, false
	}
	raw, err := h.svc.Cache.Get(c, key)
	if err != nil || raw == "" {
		return nil, false
	}
	return json.RawMessage(raw), true
}

func (h *Handler) cachePayload(c *gin.Context, key string, payload any) {
	if h.svc.Cache == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := h.svc.Cache.SetWithRandomTTL(c, key, string(raw), noteCacheTTL); err != nil {
		zap.L().Warn("failed to cache note listing", zap.String("key", key), zap.Error(err))
	}
}

func (h *Handler) invalidateNote(c *gin.Context, noteID uint) {
	if h.svc.Cache == nil {
		return
	}
	if err := h.svc.Cache.Del(c, utils.NoteCacheKey(noteID)); err != nil {
		zap.L().Warn("failed to invalidate note cache", zap.Uint("note_id", noteID), zap.Error(err))
	}
}

func (h *Handler) invalidateUserNotes(c *gin.Context, userID uint) {
	if h.svc.Cache == nil {
		return
	}
	if err := h.svc.Cache.ClearCacheByPattern(c, utils.UserNotesCachePattern(userID)); err != nil {
		zap.L().Warn("failed to invalidate user notes cache", zap.Uint("user_id", userID), zap.Error(err))
	}
}
