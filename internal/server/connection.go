package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gravitas-games/hexext/internal/network"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Token subject, empty when authentication is disabled
	subject string

	// Buffered channel for outbound messages
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, subject string) *Connection {
	return &Connection{
		ws:      ws,
		server:  server,
		subject: subject,
		send:    make(chan []byte, 256),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.session.AddConnection(c)
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			SessionID: c.server.session.ID,
			Subject:   c.subject,
			Map:       c.server.session.MapInfo(),
		},
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the session
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("", network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to the matching query
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypePath:
		c.handlePath(msg)

	case network.MsgTypeRegion, network.MsgTypeFOV, network.MsgTypeRange:
		c.handleRegion(msg)

	case network.MsgTypeMapInfo:
		c.reply(msg.ID, network.MsgTypeMapInfoReply, c.server.session.MapInfo())

	case network.MsgTypePing:
		c.reply(msg.ID, network.MsgTypePong, map[string]interface{}{"timestamp": time.Now().Unix()})

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.SendError(msg.ID, network.ErrCodeUnknownType, "Unknown message type")
	}
}

func (c *Connection) handlePath(msg *network.ClientMessage) {
	var req network.PathRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.SendError(msg.ID, network.ErrCodeInvalidRequest, "Invalid path request")
		return
	}
	res, err := c.server.session.FindPath(c.server.ctx, req)
	if err != nil {
		c.SendError(msg.ID, errorCode(err), err.Error())
		return
	}
	c.reply(msg.ID, network.MsgTypePathResult, res)
}

func (c *Connection) handleRegion(msg *network.ClientMessage) {
	var req network.RegionRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.SendError(msg.ID, network.ErrCodeInvalidRequest, "Invalid region request")
		return
	}
	res, err := c.server.session.Region(c.server.ctx, msg.Type, req)
	if err != nil {
		c.SendError(msg.ID, errorCode(err), err.Error())
		return
	}
	c.reply(msg.ID, network.MsgTypeRegionResult, res)
}

func (c *Connection) reply(id, msgType string, payload interface{}) {
	c.SendMessage(&network.ServerMessage{ID: id, Type: msgType, Payload: payload})
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(id, code, message string) {
	c.SendMessage(&network.ServerMessage{
		ID:   id,
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection; safe to call more than once
func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.server.session.RemoveConnection(c)
	c.ws.Close()
}
