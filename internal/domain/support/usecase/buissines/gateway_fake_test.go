package buissines

import (
	"context"
	"sync"

	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

type sentCall struct {
	ChatID   int64
	Text     string
	ThreadID int
	ID       int
	WithMenu bool
}

type forwardCall struct {
	FromChatID int64
	MessageID  int
	ToChatID   int64
	ThreadID   int
}

type copyCall struct {
	FromChatID int64
	MessageID  int
	ToChatID   int64
	ID         int
}

type editCall struct {
	ChatID    int64
	MessageID int
	Text      string
}

type deleteCall struct {
	ChatID    int64
	MessageID int
}

// fakeGateway is an in-memory deps.Gateway recording every call and
// supporting failure injection per operation
type fakeGateway struct {
	mu         sync.Mutex
	nextMsg    int
	nextThread int

	Sent          []sentCall
	Forwards      []forwardCall
	Copies        []copyCall
	TextEdits     []editCall
	CaptionEdits  []editCall
	Deleted       []deleteCall
	Topics        map[int]string
	DeletedTopics []int

	forwardErrs map[int]error
	sendErr     error
	copyErr     error
	editErr     error
	topicErr    error
	bio         string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextThread:  100,
		Topics:      map[int]string{},
		forwardErrs: map[int]error{},
	}
}

func (g *fakeGateway) failForward(threadID int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forwardErrs[threadID] = err
}

func (g *fakeGateway) SendMessage(ctx context.Context, chatID int64, text string, threadID int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	g.nextMsg++
	g.Sent = append(g.Sent, sentCall{ChatID: chatID, Text: text, ThreadID: threadID, ID: g.nextMsg})
	return g.nextMsg, nil
}

func (g *fakeGateway) SendMenu(ctx context.Context, chatID int64, text string, root *menu.Item, threadID int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	g.nextMsg++
	g.Sent = append(g.Sent, sentCall{ChatID: chatID, Text: text, ThreadID: threadID, ID: g.nextMsg, WithMenu: true})
	return g.nextMsg, nil
}

func (g *fakeGateway) SendFile(ctx context.Context, chatID int64, path, caption string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextMsg++
	g.Sent = append(g.Sent, sentCall{ChatID: chatID, Text: path, ID: g.nextMsg})
	return g.nextMsg, nil
}

func (g *fakeGateway) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editErr != nil {
		return g.editErr
	}
	g.TextEdits = append(g.TextEdits, editCall{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (g *fakeGateway) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editErr != nil {
		return g.editErr
	}
	g.CaptionEdits = append(g.CaptionEdits, editCall{ChatID: chatID, MessageID: messageID, Text: caption})
	return nil
}

func (g *fakeGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Deleted = append(g.Deleted, deleteCall{ChatID: chatID, MessageID: messageID})
	return nil
}

func (g *fakeGateway) ForwardMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64, threadID int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.forwardErrs[threadID]; ok {
		return 0, err
	}
	g.nextMsg++
	g.Forwards = append(g.Forwards, forwardCall{FromChatID: fromChatID, MessageID: messageID, ToChatID: toChatID, ThreadID: threadID})
	return g.nextMsg, nil
}

func (g *fakeGateway) CopyMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.copyErr != nil {
		return 0, g.copyErr
	}
	g.nextMsg++
	g.Copies = append(g.Copies, copyCall{FromChatID: fromChatID, MessageID: messageID, ToChatID: toChatID, ID: g.nextMsg})
	return g.nextMsg, nil
}

func (g *fakeGateway) CreateTopic(ctx context.Context, chatID int64, title string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.topicErr != nil {
		return 0, g.topicErr
	}
	g.nextThread++
	g.Topics[g.nextThread] = title
	return g.nextThread, nil
}

func (g *fakeGateway) DeleteTopic(ctx context.Context, chatID int64, threadID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.DeletedTopics = append(g.DeletedTopics, threadID)
	delete(g.Topics, threadID)
	return nil
}

func (g *fakeGateway) ChatBio(ctx context.Context, chatID int64) (string, error) {
	return g.bio, nil
}

// sentTo returns the texts sent to one chat, in order
func (g *fakeGateway) sentTo(chatID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, s := range g.Sent {
		if s.ChatID == chatID {
			out = append(out, s.Text)
		}
	}
	return out
}
