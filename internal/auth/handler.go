// File: internal/auth/handler.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"medical_assistant_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

var errTooManyAttempts = common.NewAPIError(http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", MessageTooManyAttempts)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler struct holds dependencies for session handlers.
type Handler struct {
	flow     *Flow
	wsBuffer int
	logger   *zap.Logger
}

// NewHandler creates a new session handler. wsBuffer bounds the states queued
// per websocket client before it is dropped.
func NewHandler(flow *Flow, wsBuffer int, logger *zap.Logger) *Handler {
	if wsBuffer <= 0 {
		wsBuffer = 16
	}
	return &Handler{flow: flow, wsBuffer: wsBuffer, logger: logger}
}

// RegisterRoutes sets up the routes for the login session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/dismiss", h.dismiss)
		authGroup.POST("/reset", h.reset)
		authGroup.GET("/state", h.state)
		authGroup.GET("/ws", h.stream)
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	st, err := h.flow.AttemptLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if c.Request.Context().Err() != nil {
			// client went away; nothing to write
			return
		}
		common.RespondWithError(c, common.ErrConflict.WithDetails("Login attempt was superseded by a newer one."))
		return
	}

	resp := ToStateResponse(st)
	switch st.Reason {
	case "":
		common.RespondOK(c, "Login successful.", resp)
	case ReasonInvalidCredentials:
		common.RespondWithError(c, common.ErrAuthenticationFailure.WithDetails(resp))
	case ReasonTooManyAttempts:
		common.RespondWithError(c, errTooManyAttempts.WithDetails(resp))
	default:
		common.RespondWithError(c, common.ErrStorageFailure.WithDetails(resp))
	}
}

func (h *Handler) dismiss(c *gin.Context) {
	common.RespondOK(c, "Session state updated.", ToStateResponse(h.flow.ErrorDismissed()))
}

func (h *Handler) reset(c *gin.Context) {
	common.RespondOK(c, "Session state reset.", ToStateResponse(h.flow.Reset()))
}

func (h *Handler) state(c *gin.Context) {
	common.RespondOK(c, "Session state retrieved successfully.", ToStateResponse(h.flow.Current()))
}

// stream pushes every session state to a websocket client until it disconnects.
func (h *Handler) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Session websocket upgrade failed", zap.Error(err))
		return
	}

	// the handler blocks in writePump below, so the request context stays live
	// until the client leaves or the server base context is cancelled on shutdown
	ctx, cancel := context.WithCancel(c.Request.Context())
	client := &wsClient{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan StateResponse, h.wsBuffer),
		cancel: cancel,
		logger: h.logger,
	}
	h.logger.Debug("Session websocket connected", zap.String("clientID", client.id))

	go client.readPump()

	states := h.flow.States(ctx)
	go func() {
		defer close(client.send)
		for st := range states {
			select {
			case client.send <- ToStateResponse(st):
			default:
				h.logger.Warn("Session websocket client too slow, dropping", zap.String("clientID", client.id))
				cancel()
				return
			}
		}
	}()

	client.writePump(ctx)
}

type wsClient struct {
	id     string
	conn   *websocket.Conn
	send   chan StateResponse
	cancel context.CancelFunc
	logger *zap.Logger
}

// readPump only watches for the peer going away.
func (c *wsClient) readPump() {
	defer c.cancel()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump(ctx context.Context) {
	defer func() {
		c.cancel()
		_ = c.conn.Close()
		c.logger.Debug("Session websocket closed", zap.String("clientID", c.id))
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
