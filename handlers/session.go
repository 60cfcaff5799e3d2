package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"voicedesk/models"
	"voicedesk/services/session"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// MaxAudioSize bounds one uploaded utterance (conservative for a minute
	// of 16 kHz mono PCM).
	MaxAudioSize     = 5 * 1024 * 1024
	allowedExtension = ".wav"
)

// SessionHandler exposes the conversation lifecycle and turn endpoints.
type SessionHandler struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, logger: logger}
}

// CreateSession starts a conversation and returns its ID plus the
// assistant's greeting.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	orch, err := h.registry.Create(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": orch.ID,
		"order_type": orch.OrderType,
		"greeting":   session.Greeting(orch.OrderType),
	})
}

// EndSession tears a conversation down and discards its draft.
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.registry.End(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ended": true})
}

// ToolCall is the text-mode surface: it executes one tool call directly,
// bypassing the audio pipeline. Useful for tests and non-voice frontends.
func (h *SessionHandler) ToolCall(c *gin.Context) {
	orch, ok := h.registry.Get(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "session not found", c.Param("id"))
		return
	}

	var call models.ToolCall
	if err := c.ShouldBindJSON(&call); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid tool call", err.Error())
		return
	}

	result, err := orch.HandleToolCall(c.Request.Context(), call)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "tool call failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// Turn runs one full audio turn: WAV in, transcript plus synthesized reply
// out. The audio comes back base64-encoded in the JSON body.
func (h *SessionHandler) Turn(c *gin.Context) {
	orch, ok := h.registry.Get(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "session not found", c.Param("id"))
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type",
			fmt.Sprintf("expected %s, got %s", allowedExtension, ext))
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioSize))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio", err.Error())
		return
	}
	if err := validateWave(audio); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unsupported audio format", err.Error())
		return
	}

	result, err := orch.RunTurn(c.Request.Context(), audio)
	if err != nil {
		h.logger.Error("turn failed",
			zap.String("session_id", orch.ID),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusBadGateway, "turn failed", "The assistant is unavailable right now. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript":    result.Transcript,
		"response_text": result.ResponseText,
		"audio_base64":  base64.StdEncoding.EncodeToString(result.Audio),
		"degraded":      result.Degraded,
	})
}
