package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tush00nka/dream_homes/internal/middleware"
	"tush00nka/dream_homes/internal/pkg/auth"
	"tush00nka/dream_homes/internal/pkg/httputils"
	"tush00nka/dream_homes/internal/service"
	"tush00nka/dream_homes/internal/ws"
)

type MessageHandler struct {
	messageService service.MessageService
	hub            *ws.Hub
	upgrader       *websocket.Upgrader
	sessions       *auth.SessionStore
}

func NewMessageHandler(messageService service.MessageService, hub *ws.Hub, upgrader *websocket.Upgrader, sessions *auth.SessionStore) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		hub:            hub,
		upgrader:       upgrader,
		sessions:       sessions,
	}
}

func (h *MessageHandler) RegisterRoutes(router *mux.Router, requireAuth mux.MiddlewareFunc) {
	router.Handle("/messages", requireAuth(http.HandlerFunc(h.sendMessage))).Methods("POST", "OPTIONS")
	router.Handle("/messages", requireAuth(http.HandlerFunc(h.inbox))).Methods("GET", "OPTIONS")
	router.HandleFunc("/ws", h.notifications).Methods("GET")
}

type SendMessageRequest struct {
	Message    string `json:"message"`
	PropertyID uint   `json:"property_id"`
	ReceiverID uint   `json:"receiver_id"`
}

// @Summary Send message
// @Description Send a message to a listing's owner
// @ID send-message
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param MessageData body SendMessageRequest true "Message Data"
// @Success 201 {object} model.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.Claims(r.Context())

	var request SendMessageRequest
	if err := httputils.DecodeJSON(w, r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	msg := h.messageService.SendMessage(r.Context(), request.Message, claims.UserID, request.PropertyID, request.ReceiverID)
	if msg == nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Error sending message")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, msg)
}

// @Summary Inbox
// @Description Messages received by the caller
// @ID inbox
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} []model.Message
// @Failure 401 {object} response.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) inbox(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.Claims(r.Context())
	httputils.ResponseJSON(w, http.StatusOK, h.messageService.Inbox(r.Context(), claims.UserID))
}

// @Summary Notifications
// @Description WebSocket stream of events for the caller (new messages)
// @ID notifications
// @Param token query string false "Auth token when headers cannot be set"
// @Success 101
// @Failure 401 {object} response.ErrorResponse
// @Router /ws [get]
func (h *MessageHandler) notifications(w http.ResponseWriter, r *http.Request) {
	var (
		claims *auth.Claims
		err    error
	)
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err = auth.ValidateToken(token)
	} else {
		claims, err = h.sessions.CurrentUser(r)
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(context.Background(), conn, claims.UserID)
	if !h.hub.Register(client) {
		client.Close()
		return
	}

	go func() {
		if err := client.WritePump(); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}()

	client.ReadPump()
	h.hub.Unregister(client)
}
