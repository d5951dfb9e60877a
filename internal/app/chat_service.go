package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"docuchat/internal/ai"
	"docuchat/internal/model"
)

var ErrThreadNotFound = errors.New("thread not found")

const (
	threadTitleLimit   = 30
	defaultThreadTitle = "New Chat"

	// User-facing bot texts. Generation failures are logged with full detail
	// server-side; the transcript only ever carries these fixed strings.
	generationFailedReply = "Sorry, something went wrong while generating a reply. Please try again."
	emptyReply            = "The model returned an empty response."
)

type ChatService struct {
	threadStore     ThreadStore
	messageStore    MessageStore
	documentStore   DocumentStore
	generator       ReplyGenerator
	historyCache    HistoryCache
	docExcerptLimit int
}

type SendMessageInput struct {
	UserID   uint
	ThreadID uint // 0 creates a new thread
	Message  string
}

// SendMessageResult is the full transcript returned after a chat turn.
type SendMessageResult struct {
	ThreadID uint
	Title    string
	Messages []model.Message
}

func NewChatService(
	threadStore ThreadStore,
	messageStore MessageStore,
	documentStore DocumentStore,
	generator ReplyGenerator,
	historyCache HistoryCache,
	docExcerptLimit int,
) *ChatService {
	if docExcerptLimit <= 0 {
		docExcerptLimit = defaultDocExcerptLimit
	}
	return &ChatService{
		threadStore:     threadStore,
		messageStore:    messageStore,
		documentStore:   documentStore,
		generator:       generator,
		historyCache:    historyCache,
		docExcerptLimit: docExcerptLimit,
	}
}

// SendMessage runs one chat turn: resolve or create the thread, persist the
// user message, assemble the prompt from history and document excerpts, call
// the reply generator, persist the bot message, and return the transcript.
// Generator failures degrade to a fixed bot reply, never to an HTTP error.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Message)

	thread, err := s.resolveThread(input.UserID, input.ThreadID, content)
	if err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, thread.ID)
		_ = s.historyCache.DeleteHistory(ctx, thread.ID)
	}

	userMessage := &model.Message{
		ThreadID:  thread.ID,
		Sender:    model.SenderUser,
		Text:      content,
		CreatedAt: time.Now(),
	}
	if err := s.messageStore.Create(userMessage); err != nil {
		return nil, err
	}

	history, err := s.messageStore.ListByThreadID(thread.ID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documentStore.ListByUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(history, docs, s.docExcerptLimit)

	reply := s.generate(ctx, thread.ID, prompt)
	botMessage := &model.Message{
		ThreadID:  thread.ID,
		Sender:    model.SenderBot,
		Text:      reply,
		CreatedAt: time.Now(),
	}
	if err := s.messageStore.Create(botMessage); err != nil {
		return nil, err
	}

	transcript, err := s.messageStore.ListByThreadID(thread.ID)
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		ThreadID: thread.ID,
		Title:    thread.Title,
		Messages: transcript,
	}, nil
}

func (s *ChatService) resolveThread(userID, threadID uint, content string) (*model.Thread, error) {
	if threadID != 0 {
		thread, err := s.threadStore.GetByIDAndUserID(threadID, userID)
		if err != nil {
			return nil, err
		}
		if thread == nil {
			return nil, ErrThreadNotFound
		}
		return thread, nil
	}

	title := truncateRunes(content, threadTitleLimit)
	if title == "" {
		title = defaultThreadTitle
	}
	thread := &model.Thread{UserID: userID, Title: title}
	if err := s.threadStore.Create(thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *ChatService) generate(ctx context.Context, threadID uint, prompt string) string {
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"thread_id": threadID,
			"kind":      ai.Classify(err),
		}).WithError(err).Error("reply generation failed")
		return generationFailedReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return emptyReply
	}
	return reply
}

func (s *ChatService) ListThreads(userID uint) ([]model.Thread, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.threadStore.ListByUserID(userID)
}

func (s *ChatService) DeleteThread(ctx context.Context, userID, threadID uint) error {
	if userID == 0 || threadID == 0 {
		return ErrInvalidInput
	}
	thread, err := s.threadStore.GetByIDAndUserID(threadID, userID)
	if err != nil {
		return err
	}
	if thread == nil {
		return ErrThreadNotFound
	}
	if err := s.messageStore.DeleteByThreadID(threadID); err != nil {
		return err
	}
	if err := s.threadStore.DeleteByIDAndUserID(threadID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, threadID)
	}
	return nil
}

// GetHistory returns a thread's transcript, serving from the Redis cache
// when it is populated and not mid-write.
func (s *ChatService) GetHistory(ctx context.Context, userID, threadID uint) ([]model.Message, error) {
	if userID == 0 || threadID == 0 {
		return nil, ErrInvalidInput
	}

	thread, err := s.threadStore.GetByIDAndUserID(threadID, userID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	if s.historyCache != nil {
		dirty, dirtyErr := s.historyCache.IsDirty(ctx, threadID)
		if dirtyErr == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, threadID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageStore.ListByThreadID(threadID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, threadID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, threadID, messages)
		}
	}
	return messages, nil
}
