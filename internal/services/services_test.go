package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"spark-chat/internal/domain/user"
	"spark-chat/internal/events"
	"spark-chat/internal/proxy"
	"spark-chat/internal/realtime"
	"spark-chat/internal/repository"
	"spark-chat/internal/services/mocks"
	"spark-chat/internal/testutil"
	spark_errors "spark-chat/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// testClock hands out strictly increasing timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	db               *gorm.DB
	hub              *realtime.Hub
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	profiles         *mocks.MockProfileProvider
	generator        *mocks.MockIcebreakerGenerator

	conversations *ConversationService
	messages      *MessageService
	reads         *ReadService
	inbox         *InboxService
	icebreakers   *IcebreakerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	db := testutil.NewDB(t, repository.Models()...)
	hub := realtime.NewHub(nil, realtime.BackoffConfig{Initial: 5 * time.Millisecond, Max: 20 * time.Millisecond})
	t.Cleanup(hub.Close)

	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	access := proxy.NewAccessControl(conversationRepo)
	publisher := NewEventPublisher(events.NewLocalNotifier(hub, nil), nil)
	profiles := mocks.NewMockProfileProvider(ctrl)
	generator := mocks.NewMockIcebreakerGenerator(ctrl)

	clock := newTestClock()
	conversations := NewConversationService(conversationRepo, access, profiles, publisher, nil, 0)
	conversations.now = clock.Now
	messages := NewMessageService(db, messageRepo, access, hub, publisher, nil)
	messages.now = clock.Now

	return &fixture{
		db:               db,
		hub:              hub,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		profiles:         profiles,
		generator:        generator,
		conversations:    conversations,
		messages:         messages,
		reads:            NewReadService(db, publisher, nil),
		inbox:            NewInboxService(conversationRepo, hub),
		icebreakers:      NewIcebreakerService(access, messageRepo, generator, nil),
	}
}

// anyProfiles makes every profile lookup fail with not found.
func (f *fixture) anyProfiles() {
	f.profiles.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(user.Profile{}, spark_errors.ErrNotFound).AnyTimes()
}

func (f *fixture) conversation(t *testing.T, a, b string) string {
	t.Helper()
	id, _, err := f.conversations.GetOrCreate(context.Background(), a, b)
	require.NoError(t, err)
	return id
}

func (f *fixture) send(t *testing.T, conversationID, sender, text string) {
	t.Helper()
	_, err := f.messages.Send(context.Background(), SendInput{
		ConversationID: conversationID,
		SenderID:       sender,
		Text:           text,
	})
	require.NoError(t, err)
}
