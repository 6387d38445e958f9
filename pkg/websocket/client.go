package websocket

import (
	"context"
	"encoding/json"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/pkg/logger"

	"github.com/gorilla/websocket"
)

const pingRatio = 9

// Frame is the wire envelope for both directions. Server frames carry a
// full thread snapshot; client frames carry a message to post.
type Frame struct {
	Type      string                `json:"type"`
	Messages  []*models.ChatMessage `json:"messages,omitempty"`
	Text      string                `json:"text,omitempty"`
	Error     string                `json:"error,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

// ThreadStream is a live subscription to an incident's thread. Every
// update carries the whole thread, oldest first.
type ThreadStream interface {
	Updates() <-chan []*models.ChatMessage
	Unsubscribe()
}

// MessagePoster appends a text message to the thread on behalf of the
// connected user.
type MessagePoster func(ctx context.Context, text string) error

type client struct {
	conn   *websocket.Conn
	stream ThreadStream
	post   MessagePoster
	logger *logger.Logger

	writeWait      time.Duration
	pongWait       time.Duration
	maxMessageSize int64

	outbound chan Frame
	done     chan struct{}
}

func (c *client) run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.stream.Unsubscribe()
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.sendError("malformed frame")
			continue
		}
		if frame.Type != "message" {
			continue
		}

		if err := c.post(ctx, frame.Text); err != nil {
			c.sendError(err.Error())
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pongWait * pingRatio / 10)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case messages, ok := <-c.stream.Updates():
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(Frame{
				Type:      "thread",
				Messages:  messages,
				Timestamp: time.Now().Unix(),
			}); err != nil {
				return
			}

		case frame := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *client) sendError(message string) {
	frame := Frame{Type: "error", Error: message, Timestamp: time.Now().Unix()}
	select {
	case c.outbound <- frame:
	case <-c.done:
	default:
	}
}
