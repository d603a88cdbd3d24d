package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spark-chat/config"
	"spark-chat/internal/events"
	"spark-chat/internal/middleware"
	"spark-chat/internal/proxy"
	"spark-chat/internal/realtime"
	"spark-chat/internal/repository"
	"spark-chat/internal/services"
	"spark-chat/internal/testutil"
	"spark-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	url           string
	auth          *services.AuthService
	hub           *realtime.Hub
	conversations *services.ConversationService
	messages      *services.MessageService
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, repository.Models()...)
	hub := realtime.NewHub(nil, realtime.DefaultBackoffConfig())
	t.Cleanup(hub.Close)

	conversationRepo := repository.NewConversationRepository(db)
	access := proxy.NewAccessControl(conversationRepo)
	publisher := services.NewEventPublisher(events.NewLocalNotifier(hub, nil), nil)
	auth := services.NewAuthService(&config.Config{JWTSecret: "ws-secret"})

	conversations := services.NewConversationService(conversationRepo, access, nil, publisher, nil, 0)
	messages := services.NewMessageService(db, repository.NewMessageRepository(db), access, hub, publisher, nil)
	h := NewHandler(Dependencies{
		Messages:       messages,
		Inbox:          services.NewInboxService(conversationRepo, hub),
		Reads:          services.NewReadService(db, publisher, nil),
		ReadDebounce:   20 * time.Millisecond,
		RequestTimeout: time.Second,
	}, nil)

	engine := gin.New()
	engine.GET("/v1/ws", middleware.WebSocketAuthMiddleware(auth), h.Connect)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return &wsFixture{
		url:           "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws",
		auth:          auth,
		hub:           hub,
		conversations: conversations,
		messages:      messages,
	}
}

func (f *wsFixture) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	token, err := f.auth.IssueAccessToken(userID, time.Hour)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type received struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id"`
	Data           json.RawMessage `json:"data"`
	Code           string          `json:"code"`
}

// next reads frames until one of the wanted type arrives.
func next(t *testing.T, conn *websocket.Conn, frameType string) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame received
		require.NoError(t, json.Unmarshal(payload, &frame))
		if frame.Type == frameType {
			return frame
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, frame ClientFrame) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(frame))
}

func TestWebSocket_RejectsMissingToken(t *testing.T) {
	f := newWSFixture(t)
	_, resp, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestWebSocket_MessagesSnapshotsAndRead(t *testing.T) {
	ctx := context.Background()
	f := newWSFixture(t)
	id, _, err := f.conversations.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, services.SendInput{ConversationID: id, SenderID: "alice", Text: "hello"})
	require.NoError(t, err)

	conn := f.dial(t, "bob")

	send(t, conn, ClientFrame{Type: FramePing})
	next(t, conn, FramePong)

	send(t, conn, ClientFrame{Type: FrameSubscribeMessages, ConversationID: id})
	frame := next(t, conn, FrameMessagesSnapshot)
	var list []httpdto.MessageDTO
	require.NoError(t, json.Unmarshal(frame.Data, &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)

	_, err = f.messages.Send(ctx, services.SendInput{ConversationID: id, SenderID: "alice", Text: "still there?"})
	require.NoError(t, err)
	frame = next(t, conn, FrameMessagesSnapshot)
	require.NoError(t, json.Unmarshal(frame.Data, &list))
	require.Len(t, list, 2)

	send(t, conn, ClientFrame{Type: FrameViewing, ConversationID: id})
	send(t, conn, ClientFrame{Type: FrameViewing, ConversationID: id})
	frame = next(t, conn, FrameRead)
	var marked httpdto.MarkReadResponse
	require.NoError(t, json.Unmarshal(frame.Data, &marked))
	assert.EqualValues(t, 2, marked.Marked)

	send(t, conn, ClientFrame{Type: FrameUnsubscribeMessages, ConversationID: id})
	require.Eventually(t, func() bool {
		return f.hub.SubscriberCount(realtime.ConversationTopic(id)) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestWebSocket_ViewingMarksLaterMessages(t *testing.T) {
	ctx := context.Background()
	f := newWSFixture(t)
	id, _, err := f.conversations.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, services.SendInput{ConversationID: id, SenderID: "alice", Text: "hello"})
	require.NoError(t, err)

	conn := f.dial(t, "bob")
	send(t, conn, ClientFrame{Type: FrameSubscribeMessages, ConversationID: id})
	next(t, conn, FrameMessagesSnapshot)

	send(t, conn, ClientFrame{Type: FrameViewing, ConversationID: id})
	var marked httpdto.MarkReadResponse
	require.NoError(t, json.Unmarshal(next(t, conn, FrameRead).Data, &marked))
	assert.EqualValues(t, 1, marked.Marked)

	// no second viewing frame: the new snapshot re-arms the mark
	_, err = f.messages.Send(ctx, services.SendInput{ConversationID: id, SenderID: "alice", Text: "you up?"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(next(t, conn, FrameRead).Data, &marked))
	assert.EqualValues(t, 1, marked.Marked)

	list, err := f.messages.List(ctx, id, "bob")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[1].Read)
}

func TestWebSocket_ConversationsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newWSFixture(t)
	conn := f.dial(t, "bob")

	send(t, conn, ClientFrame{Type: FrameSubscribeConversations})
	frame := next(t, conn, FrameConversationsSnapshot)
	var inbox httpdto.InboxResponse
	require.NoError(t, json.Unmarshal(frame.Data, &inbox))
	assert.Empty(t, inbox.Conversations)

	id, _, err := f.conversations.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, services.SendInput{ConversationID: id, SenderID: "alice", Text: "hi"})
	require.NoError(t, err)

	// creation and the send each produce a snapshot; the last one has the badge
	for i := 0; i < 5; i++ {
		frame = next(t, conn, FrameConversationsSnapshot)
		require.NoError(t, json.Unmarshal(frame.Data, &inbox))
		if inbox.Badge == "1" {
			break
		}
	}
	assert.Equal(t, "1", inbox.Badge)
	require.Len(t, inbox.Conversations, 1)
	require.NotNil(t, inbox.Conversations[0].Unread)
	assert.True(t, *inbox.Conversations[0].Unread)
}

func TestWebSocket_ErrorsAndCleanup(t *testing.T) {
	ctx := context.Background()
	f := newWSFixture(t)
	id, _, err := f.conversations.GetOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	conn := f.dial(t, "carol")

	send(t, conn, ClientFrame{Type: FrameSubscribeMessages, ConversationID: id})
	assert.Equal(t, "FORBIDDEN", next(t, conn, FrameError).Code)

	send(t, conn, ClientFrame{Type: FrameSubscribeMessages})
	assert.Equal(t, "INVALID_REQUEST", next(t, conn, FrameError).Code)

	send(t, conn, ClientFrame{Type: "typing"})
	assert.Equal(t, "INVALID_REQUEST", next(t, conn, FrameError).Code)

	bob := f.dial(t, "bob")
	send(t, bob, ClientFrame{Type: FrameSubscribeMessages, ConversationID: id})
	next(t, bob, FrameMessagesSnapshot)
	send(t, bob, ClientFrame{Type: FrameSubscribeConversations})
	next(t, bob, FrameConversationsSnapshot)
	assert.Equal(t, 1, f.hub.SubscriberCount(realtime.ConversationTopic(id)))

	require.NoError(t, bob.Close())
	require.Eventually(t, func() bool {
		return f.hub.SubscriberCount(realtime.ConversationTopic(id)) == 0 &&
			f.hub.SubscriberCount(realtime.InboxTopic("bob")) == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestValidateFrame(t *testing.T) {
	assert.NoError(t, validateFrame(ClientFrame{Type: FramePing}))
	assert.NoError(t, validateFrame(ClientFrame{Type: FrameViewing, ConversationID: "alice_bob"}))
	assert.Error(t, validateFrame(ClientFrame{Type: FrameViewing}))
	assert.Error(t, validateFrame(ClientFrame{Type: ""}))
	assert.Error(t, validateFrame(ClientFrame{Type: FramePing, ConversationID: strings.Repeat("x", 300)}))
}
