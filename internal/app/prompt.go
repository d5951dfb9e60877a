package app

import (
	"strings"

	"docuchat/internal/model"
)

const (
	// Per-document excerpt cap in runes. Documents are concatenated
	// wholesale up to this cutoff; there is no relevance filtering.
	defaultDocExcerptLimit = 2000

	promptPreamble = "You are a helpful assistant. Answer concisely and accurately, using the documents if relevant."
)

// buildPrompt assembles the single text payload sent to the reply generator:
// instruction preamble, conversation history (oldest first, including the
// just-saved user message), and truncated excerpts of the user's documents.
func buildPrompt(messages []model.Message, docs []model.Document, excerptLimit int) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nConversation:\n")
	b.WriteString(conversationBlock(messages))

	if docBlock := documentBlock(docs, excerptLimit); docBlock != "" {
		b.WriteString("\n\nDocuments:\n")
		b.WriteString(docBlock)
	}
	return b.String()
}

// conversationBlock serializes each message as "sender: text", one per line.
func conversationBlock(messages []model.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Sender+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

// documentBlock joins per-document excerpts with newlines, keeping the given
// (newest first) order. Documents with no extracted text are skipped.
func documentBlock(docs []model.Document, excerptLimit int) string {
	if excerptLimit <= 0 {
		excerptLimit = defaultDocExcerptLimit
	}
	var excerpts []string
	for _, d := range docs {
		if d.Content == "" {
			continue
		}
		excerpts = append(excerpts, truncateRunes(d.Content, excerptLimit))
	}
	return strings.Join(excerpts, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
