package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sanghyxuk/number-baseball/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is
	// considered dead
	pongWait = 60 * time.Second

	// Ping interval, under pongWait with margin for transit
	pingPeriod = 54 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256

	maxMessageSize = 4096
)

// Client is one websocket connection bound to a session.
type Client struct {
	connID    string
	sessionID model.SessionID
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func newClient(connID string, sessionID model.SessionID, conn *websocket.Conn) *Client {
	return &Client{
		connID:    connID,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump reads inbound frames until the connection dies, passing
// each text frame to onMessage. Runs on the connection's goroutine;
// its return triggers teardown.
func (c *Client) readPump(onMessage func([]byte), onClose func()) {
	defer onClose()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			onMessage(message)
		}
	}
}

// writePump drains the send channel to the connection and keeps the
// peer alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
