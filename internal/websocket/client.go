package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"spark-chat/internal/domain/message"
	"spark-chat/internal/realtime"
	"spark-chat/internal/services"
	"spark-chat/internal/transport/httpdto"
	spark_errors "spark-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

const conversationsKey = "conversations"

func messagesKey(conversationID string) string {
	return "messages:" + conversationID
}

// Client is one websocket connection. It owns its subscriptions and pending
// read marks; all of them are released when the connection ends.
type Client struct {
	ID     string
	UserID string

	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	deps     Dependencies
	debounce *services.ReadDebouncer
	logger   *WebSocketLogger

	mu            sync.Mutex
	subscriptions map[string]realtime.Unsubscribe
	views         map[string]struct{}
}

func NewClient(conn *websocket.Conn, userID string, deps Dependencies, l *WebSocketLogger) *Client {
	c := &Client{
		ID:            uuid.NewString(),
		UserID:        userID,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		done:          make(chan struct{}),
		deps:          deps,
		logger:        l,
		subscriptions: make(map[string]realtime.Unsubscribe),
		views:         make(map[string]struct{}),
	}
	c.debounce = services.NewReadDebouncer(deps.ReadDebounce, deps.RequestTimeout, deps.Reads.MarkRead, nil)
	return c
}

// ReadPump blocks until the connection ends, then releases everything the
// client holds.
func (c *Client) ReadPump() {
	defer c.release()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket unexpected close", c.UserID, c.ID, zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleFrame(payload)
	}
}

func (c *Client) handleFrame(payload []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.sendError("", fmt.Errorf("%w: malformed frame", spark_errors.ErrInvalidInput))
		return
	}
	if err := validateFrame(frame); err != nil {
		c.sendError(frame.ConversationID, fmt.Errorf("%w: %s", spark_errors.ErrInvalidInput, err.Error()))
		return
	}

	switch frame.Type {
	case FrameSubscribeMessages:
		c.subscribeMessages(frame.ConversationID)
	case FrameUnsubscribeMessages:
		c.unsubscribe(messagesKey(frame.ConversationID))
		c.stopViewing(frame.ConversationID)
	case FrameSubscribeConversations:
		c.subscribeConversations()
	case FrameUnsubscribeConversations:
		c.unsubscribe(conversationsKey)
	case FrameViewing:
		c.viewing(frame.ConversationID)
	case FramePing:
		c.enqueue(ServerFrame{Type: FramePong})
	}
}

func (c *Client) subscribeMessages(conversationID string) {
	key := messagesKey(conversationID)
	if c.isSubscribed(key) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.deps.RequestTimeout)
	defer cancel()
	unsubscribe, err := c.deps.Messages.Subscribe(ctx, conversationID, c.UserID, func(list []message.Message) {
		c.enqueue(ServerFrame{
			Type:           FrameMessagesSnapshot,
			ConversationID: conversationID,
			Data:           httpdto.FromMessageSlice(list),
		})
		if c.isViewing(conversationID) {
			c.markViewed(conversationID, false)
		}
	})
	if err != nil {
		c.sendError(conversationID, err)
		return
	}
	c.track(key, unsubscribe)
}

func (c *Client) subscribeConversations() {
	if c.isSubscribed(conversationsKey) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.deps.RequestTimeout)
	defer cancel()
	unsubscribe, err := c.deps.Inbox.Subscribe(ctx, c.UserID, func(inbox services.Inbox) {
		c.enqueue(ServerFrame{
			Type: FrameConversationsSnapshot,
			Data: httpdto.FromInbox(inbox),
		})
	})
	if err != nil {
		c.sendError("", err)
		return
	}
	c.track(conversationsKey, unsubscribe)
}

// viewing marks the conversation read once the client has kept it open
// for the debounce window. The view stays active until the messages
// subscription ends, and every later snapshot re-arms the mark.
func (c *Client) viewing(conversationID string) {
	c.mu.Lock()
	if c.views != nil {
		c.views[conversationID] = struct{}{}
	}
	c.mu.Unlock()

	c.markViewed(conversationID, true)
}

func (c *Client) isViewing(conversationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.views[conversationID]
	return ok
}

func (c *Client) stopViewing(conversationID string) {
	c.mu.Lock()
	delete(c.views, conversationID)
	c.mu.Unlock()

	c.debounce.Cancel(services.ReadKey{ConversationID: conversationID, ReaderID: c.UserID})
}

// markViewed schedules a debounced mark. Re-arms from snapshots only report
// when something was marked.
func (c *Client) markViewed(conversationID string, explicit bool) {
	c.debounce.Touch(services.ReadKey{ConversationID: conversationID, ReaderID: c.UserID}, func(marked int64, err error) {
		if err != nil {
			c.sendError(conversationID, err)
			return
		}
		if marked == 0 && !explicit {
			return
		}
		c.enqueue(ServerFrame{
			Type:           FrameRead,
			ConversationID: conversationID,
			Data:           httpdto.MarkReadResponse{Marked: marked},
		})
	})
}

func (c *Client) isSubscribed(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subscriptions[key]
	return ok
}

// track stores unsubscribe, or runs it right away when the client is gone
// or a concurrent subscribe won.
func (c *Client) track(key string, unsubscribe realtime.Unsubscribe) {
	c.mu.Lock()
	_, exists := c.subscriptions[key]
	closed := c.subscriptions == nil
	if !exists && !closed {
		c.subscriptions[key] = unsubscribe
	}
	c.mu.Unlock()

	if exists || closed {
		unsubscribe()
	}
}

func (c *Client) unsubscribe(key string) {
	c.mu.Lock()
	unsubscribe, ok := c.subscriptions[key]
	delete(c.subscriptions, key)
	c.mu.Unlock()

	if ok {
		unsubscribe()
	}
}

// SubscriptionCount reports how many live subscriptions the client holds.
func (c *Client) SubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscriptions)
}

func (c *Client) sendError(conversationID string, err error) {
	c.enqueue(ServerFrame{
		Type:           FrameError,
		ConversationID: conversationID,
		Error:          spark_errors.UserMessage(err),
		Code:           spark_errors.Code(err),
	})
}

// enqueue never blocks. A client that cannot keep up is disconnected; it
// gets fresh snapshots when it reconnects.
func (c *Client) enqueue(frame ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("websocket encode failed", c.UserID, c.ID, err, zap.String("frame", frame.Type))
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- payload:
	case <-c.done:
	default:
		c.logger.Warn("websocket send buffer full, closing", c.UserID, c.ID)
		c.close()
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// release drops pending read marks and every subscription.
func (c *Client) release() {
	c.close()
	c.debounce.Stop()

	c.mu.Lock()
	subscriptions := c.subscriptions
	c.subscriptions = nil
	c.views = nil
	c.mu.Unlock()

	for _, unsubscribe := range subscriptions {
		unsubscribe()
	}
	_ = c.conn.Close()
	c.logger.Info("client disconnected", c.UserID, c.ID)
}
