package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/model"
)

func newChatFixture(gen *mockGenerator) (*ChatService, *memThreadStore, *memMessageStore, *memDocumentStore) {
	threads := &memThreadStore{}
	messages := &memMessageStore{}
	docs := &memDocumentStore{}
	svc := NewChatService(threads, messages, docs, gen, nil, 0)
	return svc, threads, messages, docs
}

func TestSendMessageCreatesThreadWithTruncatedTitle(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, threads, _, _ := newChatFixture(gen)

	long := strings.Repeat("a", 25) + "宇宙宇宙宇宙宇宙宇宙"
	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: long})
	require.NoError(t, err)

	want := strings.Repeat("a", 25) + "宇宙宇宙宇"
	assert.Equal(t, want, result.Title)
	require.Len(t, threads.threads, 1)
	assert.Equal(t, want, threads.threads[0].Title)
}

func TestSendMessageEmptyMessageUsesDefaultTitle(t *testing.T) {
	gen := &mockGenerator{reply: "hi there"}
	svc, _, _, _ := newChatFixture(gen)

	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "   "})
	require.NoError(t, err)
	assert.Equal(t, "New Chat", result.Title)
}

func TestSendMessageForeignThreadNotFound(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, threads, _, _ := newChatFixture(gen)
	require.NoError(t, threads.Create(&model.Thread{UserID: 2, Title: "theirs"}))

	_, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, ThreadID: 1, Message: "hi"})
	assert.ErrorIs(t, err, ErrThreadNotFound)
	assert.Equal(t, 0, gen.calls)
}

func TestSendMessageReturnsFullTranscript(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, _, messages, _ := newChatFixture(gen)

	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)

	require.Len(t, result.Messages, 2)
	assert.Equal(t, model.SenderUser, result.Messages[0].Sender)
	assert.Equal(t, "hi", result.Messages[0].Text)
	assert.Equal(t, model.SenderBot, result.Messages[1].Sender)
	assert.Equal(t, "hello", result.Messages[1].Text)
	assert.Len(t, messages.messages, 2)

	// Second turn on the same thread carries the whole history.
	result, err = svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, ThreadID: result.ThreadID, Message: "how are you"})
	require.NoError(t, err)
	require.Len(t, result.Messages, 4)
	assert.Contains(t, gen.lastPrompt, "user: hi\nbot: hello\nuser: how are you")
}

func TestSendMessagePromptIncludesReadyDocuments(t *testing.T) {
	gen := &mockGenerator{reply: "ok"}
	svc, _, _, docs := newChatFixture(gen)
	require.NoError(t, docs.Create(&model.Document{UserID: 1, Name: "a.txt", Content: "alpha facts", Status: model.DocumentReady}))
	require.NoError(t, docs.Create(&model.Document{UserID: 1, Name: "b.pdf", Content: "", Status: model.DocumentPending}))
	require.NoError(t, docs.Create(&model.Document{UserID: 2, Name: "c.txt", Content: "someone else's", Status: model.DocumentReady}))

	_, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)

	assert.Contains(t, gen.lastPrompt, "Documents:\nalpha facts")
	assert.NotContains(t, gen.lastPrompt, "someone else's")
}

func TestSendMessagePromptOmitsDocumentsWhenNoneExtracted(t *testing.T) {
	gen := &mockGenerator{reply: "ok"}
	svc, _, _, docs := newChatFixture(gen)
	require.NoError(t, docs.Create(&model.Document{UserID: 1, Name: "a.pdf", Content: "", Status: model.DocumentFailed}))

	_, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)
	assert.NotContains(t, gen.lastPrompt, "Documents:")
}

func TestSendMessageGeneratorFailureBecomesBotReply(t *testing.T) {
	gen := &mockGenerator{err: errors.New("upstream boom")}
	svc, _, _, _ := newChatFixture(gen)

	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, generationFailedReply, result.Messages[1].Text)
}

func TestSendMessageBlankReplyFallback(t *testing.T) {
	gen := &mockGenerator{reply: "  \n "}
	svc, _, _, _ := newChatFixture(gen)

	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, emptyReply, result.Messages[1].Text)
}

func TestDeleteThreadRemovesMessages(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, threads, messages, _ := newChatFixture(gen)

	result, err := svc.SendMessage(context.Background(), SendMessageInput{UserID: 1, Message: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteThread(context.Background(), 1, result.ThreadID))
	assert.Empty(t, threads.threads)
	assert.Empty(t, messages.messages)
}

func TestDeleteThreadNotOwned(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, threads, _, _ := newChatFixture(gen)
	require.NoError(t, threads.Create(&model.Thread{UserID: 2, Title: "theirs"}))

	err := svc.DeleteThread(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrThreadNotFound)
	assert.Len(t, threads.threads, 1)
}

func TestGetHistoryUnknownThread(t *testing.T) {
	gen := &mockGenerator{reply: "hello"}
	svc, _, _, _ := newChatFixture(gen)

	_, err := svc.GetHistory(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrThreadNotFound)
}
