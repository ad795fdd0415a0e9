package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/render"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 1024
)

// Client 一个已连接的网关客户端
type Client struct {
	ID string
	IP string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 16),
	}
}

// ReadPump 读取请求，直到连接断开或 ctx 取消
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.server.unregisterClient(c)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.LogError("client %s read: %v", c.ID, err)
			}
			return
		}

		req, err := DecodeRequest(data)
		if err != nil {
			c.SendResponse(NewErrorResponse(ErrCodeInvalidMsg, "invalid message"))
			continue
		}
		c.handle(ctx, req)
	}
}

func (c *Client) handle(ctx context.Context, req *Request) {
	if req.Type != MsgRender {
		c.SendResponse(NewErrorResponse(ErrCodeInvalidMsg, "unknown message type "+req.Type))
		return
	}

	mode, err := render.ParseMode(req.Mode)
	if err != nil {
		c.SendResponse(NewErrorResponse(ErrCodeUnknownMode, err.Error()))
		return
	}

	if !c.server.limiter.Allow(c.IP) {
		c.SendResponse(NewErrorResponse(ErrCodeRateLimit, "too many requests, slow down"))
		return
	}

	text, err := c.server.svc.Render(ctx, mode)
	if err != nil {
		logger.LogError("client %s render %s: %v", c.ID, mode, err)
		c.SendResponse(NewErrorResponse(apperrors.CodeOf(err), apperrors.UserMessage(err)))
		return
	}
	c.SendResponse(&Response{Type: MsgLeaderboard, Mode: mode.String(), Text: text})
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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

// SendResponse 发送响应给客户端
func (c *Client) SendResponse(resp *Response) {
	data, err := resp.Encode()
	if err != nil {
		logger.LogError("encode response: %v", err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，丢弃
		logger.LogError("client %s send buffer full", c.ID)
	}
}

// Close 关闭发送通道
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
