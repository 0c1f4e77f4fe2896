package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-advisor/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de sesiones de chat.
type ChatHandler struct {
	logger   *zap.Logger
	chatSvc  *service.ChatService
	sessions service.SessionStore
	jwtSvc   *service.JWTService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(
	logger *zap.Logger,
	chatSvc *service.ChatService,
	sessions service.SessionStore,
	jwtSvc *service.JWTService,
) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatSvc:  chatSvc,
		sessions: sessions,
		jwtSvc:   jwtSvc,
	}
}

// CreateSession maneja POST /session: crea la sesion con el saludo inicial
// y devuelve el token que la acredita.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess := h.chatSvc.NewSession()
	if err := h.sessions.Put(sess); err != nil {
		h.logger.Error("store session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	resp := gin.H{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt,
		"messages":   sess.Messages(),
	}

	if h.jwtSvc.Enabled() {
		token, expiresIn, err := h.jwtSvc.GenerateSessionToken(sess.ID)
		if err != nil {
			h.logger.Error("sign session token failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		resp["token"] = token
		resp["expires_in"] = expiresIn
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMessages maneja GET /session/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"messages":   sess.Messages(),
		"prediction": sess.Outcome(),
	})
}

// PostMessage maneja POST /session/:id/message: un turno completo de chat,
// incluida la prediccion automatica si la respuesta trae payload.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.chatSvc.Send(c.Request.Context(), sess, req.Content)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
		return
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a request is already in flight for this session"})
		return
	case err != nil:
		h.logger.Error("chat turn failed", zap.String("session_id", sess.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":   result.Messages,
		"prediction": result.Outcome,
	})
}
