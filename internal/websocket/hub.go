package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"coursebook/api/websocket"
	e "coursebook/internal/errors"
	"coursebook/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 常量定义
const (
	writeWait      = 10 * time.Second    // 写操作超时时间
	pongWait       = 60 * time.Second    // 等待 pong 消息的最大时间
	pingPeriod     = (pongWait * 9) / 10 // 发送 ping 消息的周期
	maxMessageSize = 4096                // 最大消息大小
	requestTimeout = 10 * time.Second    // 单个请求的处理时限
	sendBuffer     = 256
)

// 定义状态码常量
const (
	CodeSuccess = 0
)

// WebSocket 连接升级器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 表示一个 WebSocket 客户端连接
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	doneOnce sync.Once
	session  *session.Session
}

func (c *Client) stop() {
	c.doneOnce.Do(func() { close(c.done) })
}

// reply 将消息放入发送队列，连接关闭后直接丢弃
func (c *Client) reply(message []byte) {
	select {
	case c.send <- message:
	case <-c.done:
	}
}

// Hub 维护活动客户端的集合并向订阅者推送课程变更
type Hub struct {
	clients    map[*Client]bool
	publish    chan uuid.UUID
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	sessions   *session.Manager
	courses    CourseService
	logger     *zap.Logger
}

// NewHub 创建一个新的 Hub
func NewHub(sessions *session.Manager, courses CourseService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		publish:    make(chan uuid.UUID),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		sessions:   sessions,
		courses:    courses,
		logger:     logger,
	}
}

// Run 启动 Hub 的主循环，ctx 取消后断开所有客户端
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("Hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case courseID := <-h.publish:
			message := marshalMessage(protocol.CourseUpdatedMessage, "", CodeSuccess, protocol.CourseUpdatedEvent{CourseID: courseID.String()})
			for client := range h.clients {
				if !h.sessions.IsSubscribed(client.session.ID, courseID) {
					continue
				}
				select {
				case client.send <- message:
				default:
					h.logger.Warn("Dropping course update for slow client",
						zap.String("sessionID", client.session.ID),
						zap.Stringer("courseID", courseID))
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.stop()
	h.sessions.EndSession(client.session.ID)
}

// NotifyCourseChanged 通知订阅了该课程的客户端
func (h *Hub) NotifyCourseChanged(courseID uuid.UUID) {
	select {
	case h.publish <- courseID:
	case <-h.done:
	}
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	return h.sessions.Count()
}

// readPump 从 WebSocket 连接中泵取消息
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.hub.logger.Error("Unexpected close error", zap.Error(err))
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Error("Error unmarshalling message", zap.Error(err))
			c.reply(errorMessage("", e.ErrInvalidData, err))
			continue
		}

		c.reply(c.dispatch(msg))
	}
}

// writePump 将消息泵送到 WebSocket 连接
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs 处理 WebSocket 连接请求
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("Error upgrading connection", zap.Error(err))
		return
	}

	clientID := r.URL.Query().Get("deviceCode")
	if clientID == "" {
		clientID = r.RemoteAddr
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		session: hub.sessions.CreateSession(clientID),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		hub.sessions.EndSession(client.session.ID)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
