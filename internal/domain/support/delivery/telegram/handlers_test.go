package telegram

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
	"github.com/Conte777/SupportFlow/internal/domain/support/repository/gormdb"
	"github.com/Conte777/SupportFlow/internal/domain/support/repository/kafka"
	"github.com/Conte777/SupportFlow/internal/domain/support/usecase/buissines"
)

const (
	testGroupID int64 = -100
	testBotID   int64 = 7777
)

type sentMsg struct {
	ChatID   int64
	Text     string
	ThreadID int
}

// recordingGateway is an in-memory deps.Gateway capturing what the
// handlers ultimately send
type recordingGateway struct {
	nextID     int
	nextThread int
	Sent       []sentMsg
	Forwards   []int64
	Copies     []int64
	Topics     map[int]string
}

var _ deps.Gateway = (*recordingGateway)(nil)

func newRecordingGateway() *recordingGateway {
	return &recordingGateway{nextThread: 100, Topics: map[int]string{}}
}

func (g *recordingGateway) SendMessage(_ context.Context, chatID int64, text string, threadID int) (int, error) {
	g.nextID++
	g.Sent = append(g.Sent, sentMsg{ChatID: chatID, Text: text, ThreadID: threadID})
	return g.nextID, nil
}

func (g *recordingGateway) SendMenu(_ context.Context, chatID int64, text string, _ *menu.Item, threadID int) (int, error) {
	g.nextID++
	g.Sent = append(g.Sent, sentMsg{ChatID: chatID, Text: text, ThreadID: threadID})
	return g.nextID, nil
}

func (g *recordingGateway) SendFile(_ context.Context, chatID int64, path, _ string) (int, error) {
	g.nextID++
	g.Sent = append(g.Sent, sentMsg{ChatID: chatID, Text: path})
	return g.nextID, nil
}

func (g *recordingGateway) EditText(context.Context, int64, int, string) error    { return nil }
func (g *recordingGateway) EditCaption(context.Context, int64, int, string) error { return nil }
func (g *recordingGateway) DeleteMessage(context.Context, int64, int) error       { return nil }

func (g *recordingGateway) ForwardMessage(_ context.Context, _ int64, _ int, toChatID int64, _ int) (int, error) {
	g.nextID++
	g.Forwards = append(g.Forwards, toChatID)
	return g.nextID, nil
}

func (g *recordingGateway) CopyMessage(_ context.Context, _ int64, _ int, toChatID int64) (int, error) {
	g.nextID++
	g.Copies = append(g.Copies, toChatID)
	return g.nextID, nil
}

func (g *recordingGateway) CreateTopic(_ context.Context, _ int64, title string) (int, error) {
	g.nextThread++
	g.Topics[g.nextThread] = title
	return g.nextThread, nil
}

func (g *recordingGateway) DeleteTopic(_ context.Context, _ int64, threadID int) error {
	delete(g.Topics, threadID)
	return nil
}

func (g *recordingGateway) ChatBio(context.Context, int64) (string, error) { return "", nil }

func (g *recordingGateway) sentTo(chatID int64) []string {
	var out []string
	for _, s := range g.Sent {
		if s.ChatID == chatID {
			out = append(out, s.Text)
		}
	}
	return out
}

func newTestHandlers(t *testing.T, menus buissines.Menus) (*Handlers, *recordingGateway, deps.UserRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := &config.RelayConfig{
		AdminGroupID:       testGroupID,
		HelloMsg:           "hello!",
		ContactGateMsg:     "press the button first",
		ContactUnlockedMsg: "the chat is open",
		StatsTopicName:     "Statistics",
		StateDir:           t.TempDir(),
	}

	users := gormdb.NewUserRepository(db)
	uc := buissines.NewUseCase(cfg,
		users,
		gormdb.NewActionStatRepository(db),
		gormdb.NewAdminStatRepository(db),
		gormdb.NewPendingDeletionRepository(db),
		gormdb.NewMirrorRepository(db),
		kafka.NopExporter{},
		menus,
		zerolog.Nop(),
	)
	gw := newRecordingGateway()
	uc.SetGateway(gw)

	h := &Handlers{uc: uc, cfg: cfg, selfID: testBotID, logger: zerolog.Nop()}
	return h, gw, users
}

func groupJoin(memberID int64) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:             1,
		Chat:           models.Chat{ID: testGroupID, Type: "supergroup", IsForum: true},
		From:           &models.User{ID: 900, FirstName: "Op"},
		NewChatMembers: []models.User{{ID: memberID}},
		Date:           int(time.Now().Unix()),
	}}
}

func adminTopicMsg(text string, threadID int) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:              10,
		Chat:            models.Chat{ID: testGroupID, Type: "supergroup"},
		From:            &models.User{ID: 900, FirstName: "Op"},
		MessageThreadID: threadID,
		Text:            text,
		Date:            int(time.Now().Unix()),
	}}
}

func privateMsg(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   11,
		Chat: models.Chat{ID: userID, Type: "private"},
		From: &models.User{ID: userID, FirstName: "Ann"},
		Text: text,
		Date: int(time.Now().Unix()),
	}}
}

func TestGroupHelloOnlyWhenBotJoins(t *testing.T) {
	h, gw, _ := newTestHandlers(t, buissines.Menus{})
	ctx := context.Background()

	// An ordinary member joining must not trigger the greeting
	h.OnUpdate(ctx, nil, groupJoin(555))
	require.Empty(t, gw.Sent)

	h.OnUpdate(ctx, nil, groupJoin(testBotID))
	require.Len(t, gw.Sent, 1)
	require.Contains(t, gw.Sent[0].Text, strconv.FormatInt(testGroupID, 10))
}

func TestAdminCommandsAreNotRelayed(t *testing.T) {
	h, gw, users := newTestHandlers(t, buissines.Menus{})
	ctx := context.Background()

	_, err := users.Add(ctx, dto.User{ID: 42, FullName: "Ann"}, dto.Message{Date: time.Now()}, 55, true, true)
	require.NoError(t, err)

	// Exact commands are consumed by the router; everything that still
	// looks like a command must not reach the user either
	h.OnUpdate(ctx, nil, adminTopicMsg("/del 123", 55))
	h.OnUpdate(ctx, nil, adminTopicMsg("/delete", 55))
	h.OnUpdate(ctx, nil, adminTopicMsg("/del@SupportBot", 55))
	require.Empty(t, gw.Copies)

	h.OnUpdate(ctx, nil, adminTopicMsg("hi there", 55))
	require.Equal(t, []int64{42}, gw.Copies)
}

func TestPrivateSlashTextIsRelayed(t *testing.T) {
	h, gw, users := newTestHandlers(t, buissines.Menus{})
	ctx := context.Background()

	_, err := users.Add(ctx, dto.User{ID: 42, FullName: "Ann"}, dto.Message{Date: time.Now()}, 55, true, true)
	require.NoError(t, err)

	// A user literally typing /del is a message, not a command
	h.OnDel(ctx, nil, privateMsg(42, "/del"))
	require.Equal(t, []int64{testGroupID}, gw.Forwards)

	h.OnBan(ctx, nil, privateMsg(42, "/ban me please"))
	require.Len(t, gw.Forwards, 2)
}

func TestQuickReplyFailuresAlert(t *testing.T) {
	ctx := context.Background()

	h, _, _ := newTestHandlers(t, buissines.Menus{})
	answer, alert := h.quickReplyAnswer(ctx, 55, "greet")
	require.Equal(t, "Quick replies are not configured.", answer)
	require.True(t, alert)

	quick := &menu.Menu{Root: menu.Classify("", map[string]any{
		"greet": map[string]any{"label": "Greeting", "answer": "Hello!"},
	})}
	h, _, users := newTestHandlers(t, buissines.Menus{Quick: quick})
	answer, alert = h.quickReplyAnswer(ctx, 55, "greet")
	require.Equal(t, "No user is bound to this topic.", answer)
	require.True(t, alert)

	_, err := users.Add(ctx, dto.User{ID: 42}, dto.Message{Date: time.Now()}, 55, true, true)
	require.NoError(t, err)
	answer, alert = h.quickReplyAnswer(ctx, 55, "greet")
	require.Equal(t, "Message sent.", answer)
	require.False(t, alert)
}

func TestStartChatButtonStillAnswers(t *testing.T) {
	main := &menu.Menu{Root: menu.Classify("", map[string]any{
		"contact": map[string]any{
			"label":          "Contact us",
			"answer":         "An operator will reply soon.",
			"start_chat":     true,
			"as_new_message": true,
		},
	})}
	h, gw, _ := newTestHandlers(t, buissines.Menus{Main: main})
	ctx := context.Background()

	call := &models.CallbackQuery{ID: "1", From: models.User{ID: 42, FirstName: "Ann"}}
	answer, alert := h.onMenuPress(ctx, nil, call, 42, 7, "contact")
	require.Empty(t, answer)
	require.False(t, alert)

	// The unlock prompt first, then the button's own answer
	require.Equal(t, []string{"the chat is open", "An operator will reply soon."}, gw.sentTo(42))
}
