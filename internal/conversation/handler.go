package conversation

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// ChatRequest is the inbound chat payload. A missing session_id starts a new
// conversation under a server-generated key.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse wraps the machine's reply with the session key the client
// must echo back.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Result    Reply  `json:"result"`
}

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Chat handles POST /api/chat. Internal failures never leak: the client gets
// a generic error reply and the session state stays put, so the same input
// can simply be retried.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.service.HandleMessage(r.Context(), sessionID, req.Message)
	if err != nil {
		h.logger.Error("message handling failed", "session_id", sessionID, "error", err)
		reply = Reply{Type: ReplyError, Response: "Server error occurred. Please try again."}
	}

	h.writeJSON(w, http.StatusOK, ChatResponse{SessionID: sessionID, Result: reply})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
