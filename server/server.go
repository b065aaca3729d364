package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	leadx "github.com/daisylabs/leadgpt/agent/agents/lead"
	contractx "github.com/daisylabs/leadgpt/agent/contract"
	sessionx "github.com/daisylabs/leadgpt/agent/session"
)

// TurnHandler processes one chat message for a session.
type TurnHandler interface {
	HandleMessage(ctx context.Context, sessionID, text string) (contractx.TurnResult, error)
}

type Config struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8000"`
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	SessionID string               `json:"session_id"`
	Response  contractx.TurnResult `json:"response"`
}

// New builds the HTTP router around a turn handler.
func New(handler TurnHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), allowAllCORS())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/chat", chatHandler(handler))

	return router
}

func chatHandler(handler TurnHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		sessionID := strings.TrimSpace(req.SessionID)
		if sessionID == "" {
			sessionID = sessionx.NewSessionID()
		}

		result, err := handler.HandleMessage(c.Request.Context(), sessionID, req.Message)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, leadx.ErrInvalidMessage) || errors.Is(err, leadx.ErrInvalidSession) ||
				errors.Is(err, contractx.ErrValidation) {
				status = http.StatusBadRequest
			}
			log.Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, ChatResponse{
			SessionID: sessionID,
			Response:  result,
		})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

// allowAllCORS keeps the endpoint reachable from any web chat widget.
func allowAllCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
