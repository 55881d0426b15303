package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonkonan/materrax/internal/models"
	"github.com/tonkonan/materrax/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Debug("Malformed registration body", "error", err)
		input = models.RegisterInput{}
	}

	resp, err := h.authService.Register(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Debug("Malformed login body", "error", err)
		input = models.LoginInput{}
	}

	resp, err := h.authService.Login(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	user, err := h.authService.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Sessions(c *gin.Context) {
	identity, _ := CurrentIdentity(c)

	sessions, err := h.authService.ListSessions(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, h.logger, err, "failed to fetch sessions")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, users)
}
