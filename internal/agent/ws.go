package agent

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/crukhq/supporter-engagement/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"` // "start", "message", or "end"
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
}

// wsResponse is the outgoing WebSocket message format. Turn replies
// embed the full agent response so the widget gets dashboards and UI
// hints over the socket too.
type wsResponse struct {
	Type     string               `json:"type"` // "response", "ended", or "error"
	Response *model.AgentResponse `json:"response,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func (a *Agent) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			a.sendWSError(conn, "invalid message format")
			continue
		}
		if strings.TrimSpace(req.UserID) == "" {
			a.sendWSError(conn, "userId is required")
			continue
		}

		switch req.Type {
		case "start":
			resp, err := a.InitializeSession(r.Context(), req.UserID)
			if err != nil {
				a.log.Error().Err(err).Str("user", req.UserID).Msg("initializing session")
				a.sendWSError(conn, "could not start a session")
				continue
			}
			a.sendWS(conn, wsResponse{Type: "response", Response: resp})

		case "message":
			if strings.TrimSpace(req.Content) == "" {
				a.sendWSError(conn, "content is required")
				continue
			}
			resp, err := a.ProcessInput(r.Context(), req.UserID, req.Content, req.SessionID)
			if err != nil {
				a.log.Error().Err(err).Str("user", req.UserID).Msg("processing turn")
				a.sendWSError(conn, "could not process your message")
				continue
			}
			a.sendWS(conn, wsResponse{Type: "response", Response: resp})

		case "end":
			if err := a.EndSession(r.Context(), req.UserID, req.SessionID); err != nil {
				a.log.Error().Err(err).Str("session", req.SessionID).Msg("ending session")
				a.sendWSError(conn, "could not end the session")
				continue
			}
			a.sendWS(conn, wsResponse{Type: "ended"})

		default:
			a.sendWSError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (a *Agent) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		a.log.Warn().Err(err).Msg("websocket write")
	}
}

func (a *Agent) sendWSError(conn *websocket.Conn, message string) {
	a.sendWS(conn, wsResponse{Type: "error", Error: message})
}
