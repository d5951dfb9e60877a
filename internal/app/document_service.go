package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docuchat/internal/model"
	"docuchat/internal/pkg/extract"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentEmpty    = errors.New("document is empty")
)

type DocumentService struct {
	documentStore DocumentStore
	publisher     ExtractJobPublisher
}

type UploadInput struct {
	UserID   uint
	Filename string
	Data     []byte
}

func NewDocumentService(documentStore DocumentStore, publisher ExtractJobPublisher) *DocumentService {
	return &DocumentService{
		documentStore: documentStore,
		publisher:     publisher,
	}
}

// Upload persists the raw blob immediately and hands extraction to the queue
// worker. When no publisher is configured, or publishing fails, extraction
// runs inline so the document never stays pending forever.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if len(input.Data) == 0 {
		return nil, ErrDocumentEmpty
	}

	name := strings.TrimSpace(input.Filename)
	if name == "" {
		name = "Untitled"
	}

	doc := &model.Document{
		UserID: input.UserID,
		Name:   name,
		Data:   input.Data,
		Status: model.DocumentPending,
	}
	if err := s.documentStore.Create(doc); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		job := model.ExtractJob{JobID: uuid.NewString(), DocumentID: doc.ID}
		err := s.publisher.Publish(ctx, job)
		if err == nil {
			return doc, nil
		}
		logrus.WithFields(logrus.Fields{
			"document_id": doc.ID,
			"job_id":      job.JobID,
		}).WithError(err).Warn("enqueue extract job failed, extracting inline")
	}

	content, status := ExtractDocument(doc)
	if err := s.documentStore.UpdateExtraction(doc.ID, content, status); err != nil {
		return nil, err
	}
	doc.Content = content
	doc.Status = status
	return doc, nil
}

// ExtractDocument runs the text extractor on a stored blob and reports the
// resulting status. Shared by the inline fallback and the queue worker.
func ExtractDocument(doc *model.Document) (content, status string) {
	content = extract.Text(doc.Name, doc.Data)
	if content == "" {
		return "", model.DocumentFailed
	}
	return content, model.DocumentReady
}

func (s *DocumentService) List(userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.documentStore.ListByUserID(userID)
}

// Get returns a single document including its blob, owner-scoped.
func (s *DocumentService) Get(userID, documentID uint) (*model.Document, error) {
	if userID == 0 || documentID == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.documentStore.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *DocumentService) Delete(userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.documentStore.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	return s.documentStore.DeleteByIDAndUserID(documentID, userID)
}
