package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type               string `json:"type"` // "response" or "error"
	SessionID          string `json:"session_id"`
	Content            string `json:"content"`
	TokenCount         int    `json:"token_count,omitempty"`
	ClarificationCount int    `json:"clarification_count,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "", "invalid message format")
			continue
		}

		if req.Content == "" {
			s.sendWSError(conn, req.SessionID, "content is required")
			continue
		}

		switch req.Type {
		case "message":
			s.handleWSMessage(conn, r, req)
		default:
			s.sendWSError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleWSMessage(conn *websocket.Conn, r *http.Request, req wsRequest) {
	result, err := s.engine.Run(r.Context(), req.SessionID, req.Content)
	if err != nil {
		s.sendWSError(conn, req.SessionID, "processing failed: "+err.Error())
		return
	}

	for _, reply := range result.Replies {
		s.sendWS(conn, wsResponse{
			Type:               "response",
			SessionID:          result.SessionID,
			Content:            reply.Content,
			TokenCount:         result.State.CurrentTokenCount,
			ClarificationCount: result.State.ClarificationCount,
		})
	}
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, message string) {
	resp := wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
