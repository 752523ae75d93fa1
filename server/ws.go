package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	logx "github.com/hotelhive/server/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage is the chat wire format, both directions.
type wsMessage struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Sender   string `json:"sender,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

type chatSession struct {
	conn      *websocket.Conn
	sessionID string
	server    *Server
	writeMu   sync.Mutex
}

// handleWebSocket upgrades the connection and runs the chat loop. Each
// connection gets its own session id, so its history and pending booking
// live for the life of the socket and beyond.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logx.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	cs := &chatSession{
		conn:      conn,
		sessionID: uuid.NewString(),
		server:    s,
	}
	logx.Info().Str("session_id", cs.sessionID).Msg("websocket connected")
	cs.run(c)
	logx.Info().Str("session_id", cs.sessionID).Msg("websocket closed")
}

func (cs *chatSession) run(c *gin.Context) {
	for {
		_, raw, err := cs.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logx.Warn().Err(err).Str("session_id", cs.sessionID).Msg("websocket read error")
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cs.send(wsMessage{Type: "error", Content: "invalid message format"})
			continue
		}
		if msg.Type != "message" {
			continue
		}

		cs.handleChatMessage(c, msg.Content)
	}
}

func (cs *chatSession) handleChatMessage(c *gin.Context, content string) {
	cs.send(wsMessage{Type: "typing", IsTyping: true})
	defer cs.send(wsMessage{Type: "typing", IsTyping: false})

	reply, err := cs.server.concierge.HandleMessage(c.Request.Context(), cs.sessionID, content)
	if err != nil {
		logx.Error().Err(err).Str("session_id", cs.sessionID).Msg("websocket turn failed")
		cs.send(wsMessage{Type: "error", Content: "failed to process message"})
		return
	}

	cs.send(wsMessage{Type: "message", Content: reply, Sender: "bot"})
}

func (cs *chatSession) send(msg wsMessage) {
	cs.writeMu.Lock()
	defer cs.writeMu.Unlock()
	if err := cs.conn.WriteJSON(msg); err != nil {
		logx.Warn().Err(err).Str("session_id", cs.sessionID).Msg("websocket write failed")
	}
}
