package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

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

func (h *Handler) Register(c *gin.Context) {
	var req validators.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.service.Register(c, req.Username, req.Email, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "user registered", "user": user.Brief(false)})
}

func (h *Handler) Login(c *gin.Context) {
	var req validators.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.service.Authenticate(c, req.Username, req.Password)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(h.svc.Config, user.ID, user.Username)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.cacheSession(c, user.ID, token)

	utils.Success(c, gin.H{"token": token, "user": gin.H{
		"id":       user.ID,
		"username": user.Username,
	}})
}

func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.Error(c, http.StatusBadRequest, "invalid token format")
		return
	}
	tokenString := parts[1]

	if h.svc.Cache == nil {
		utils.Success(c, gin.H{"message": "logged out"})
		return
	}

	err := utils.AddTokenToBlacklist(c, h.svc.Cache.Client(), tokenString, h.svc.Config.JWTExpirationTime)
	if err != nil {
		zap.L().Error("failed to add token to blacklist",
			zap.Error(err), zap.String("token", utils.GetTokenHash(tokenString)))
		utils.Error(c, http.StatusInternalServerError, "failed to logout")
		return
	}

	utils.Success(c, gin.H{"message": "logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	view, err := h.service.Profile(c, userID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": view})
}

func (h *Handler) GetProfile(c *gin.Context) {
	viewerID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	targetID, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	view, err := h.service.Profile(c, viewerID, targetID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user": view})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.service.UpdateProfile(c, userID, req.Avatar, req.Bio)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if h.svc.Cache != nil {
		_ = h.svc.Cache.Del(c, utils.ProfileCacheKey(userID))
	}

	utils.Success(c, gin.H{"user": user.Brief(false)})
}

func (h *Handler) cacheSession(c *gin.Context, userID uint, token string) {
	if h.svc.Cache == nil {
		return
	}
	payload, err := json.Marshal(gin.H{"id": userID, "token": token, "at": time.Now().Unix()})
	if err != nil {
		return
	}
	key := fmt.Sprintf("user:session:%d", userID)
	if err := h.svc.Cache.SetWithRandomTTL(c, key, string(payload), h.svc.Config.JWTExpirationTime); err != nil {
		zap.L().Warn("failed to cache user session", zap.Error(err), zap.Uint("user_id", userID))
	}
}
