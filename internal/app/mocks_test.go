package app

import (
	"context"
	"errors"
	"time"

	"docuchat/internal/model"
)

// In-memory fakes for the store and collaborator interfaces. Slices keep
// insertion order, which matches the ascending (created_at, id) ordering the
// repositories produce.

type memUserStore struct {
	users  []model.User
	nextID uint
}

func (s *memUserStore) Create(user *model.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, *user)
	return nil
}

func (s *memUserStore) GetByUsername(username string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByEmail(email string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(id uint) (*model.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type memThreadStore struct {
	threads []model.Thread
	nextID  uint
}

func (s *memThreadStore) Create(thread *model.Thread) error {
	s.nextID++
	thread.ID = s.nextID
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now()
	}
	s.threads = append(s.threads, *thread)
	return nil
}

func (s *memThreadStore) ListByUserID(userID uint) ([]model.Thread, error) {
	var out []model.Thread
	for i := range s.threads {
		if s.threads[i].UserID == userID {
			out = append(out, s.threads[i])
		}
	}
	return out, nil
}

func (s *memThreadStore) GetByIDAndUserID(threadID, userID uint) (*model.Thread, error) {
	for i := range s.threads {
		if s.threads[i].ID == threadID && s.threads[i].UserID == userID {
			t := s.threads[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *memThreadStore) DeleteByIDAndUserID(threadID, userID uint) error {
	for i := range s.threads {
		if s.threads[i].ID == threadID && s.threads[i].UserID == userID {
			s.threads = append(s.threads[:i], s.threads[i+1:]...)
			return nil
		}
	}
	return nil
}

type memMessageStore struct {
	messages []model.Message
	nextID   uint
}

func (s *memMessageStore) Create(message *model.Message) error {
	s.nextID++
	message.ID = s.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, *message)
	return nil
}

func (s *memMessageStore) ListByThreadID(threadID uint) ([]model.Message, error) {
	var out []model.Message
	for i := range s.messages {
		if s.messages[i].ThreadID == threadID {
			out = append(out, s.messages[i])
		}
	}
	return out, nil
}

func (s *memMessageStore) DeleteByThreadID(threadID uint) error {
	kept := s.messages[:0]
	for i := range s.messages {
		if s.messages[i].ThreadID != threadID {
			kept = append(kept, s.messages[i])
		}
	}
	s.messages = kept
	return nil
}

type memDocumentStore struct {
	docs   []model.Document
	nextID uint
}

func (s *memDocumentStore) Create(doc *model.Document) error {
	s.nextID++
	doc.ID = s.nextID
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	s.docs = append(s.docs, *doc)
	return nil
}

// ListByUserID returns newest first, mirroring the repository ordering.
func (s *memDocumentStore) ListByUserID(userID uint) ([]model.Document, error) {
	var out []model.Document
	for i := len(s.docs) - 1; i >= 0; i-- {
		if s.docs[i].UserID == userID {
			out = append(out, s.docs[i])
		}
	}
	return out, nil
}

func (s *memDocumentStore) GetByIDAndUserID(id, userID uint) (*model.Document, error) {
	for i := range s.docs {
		if s.docs[i].ID == id && s.docs[i].UserID == userID {
			d := s.docs[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (s *memDocumentStore) GetByID(id uint) (*model.Document, error) {
	for i := range s.docs {
		if s.docs[i].ID == id {
			d := s.docs[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (s *memDocumentStore) UpdateExtraction(id uint, content, status string) error {
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs[i].Content = content
			s.docs[i].Status = status
			return nil
		}
	}
	return errors.New("document not found")
}

func (s *memDocumentStore) DeleteByIDAndUserID(id, userID uint) error {
	for i := range s.docs {
		if s.docs[i].ID == id && s.docs[i].UserID == userID {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockGenerator struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (g *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type mockPublisher struct {
	jobs []model.ExtractJob
	err  error
}

func (p *mockPublisher) Publish(_ context.Context, job model.ExtractJob) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type mockRevoker struct {
	revoked map[string]time.Time
}

func (r *mockRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *mockRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}
