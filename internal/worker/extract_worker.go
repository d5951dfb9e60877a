package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/repository"
)

// ExtractWorker consumes document extraction jobs: it loads the stored blob,
// runs the text extractor, and writes content and status back to the row.
// Extraction failure is a terminal state for the document, not for the
// worker, so failed jobs are acked after the row is marked failed.
type ExtractWorker struct {
	conn      *amqp.Connection
	repo      *repository.DocumentRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExtractWorker(conn *amqp.Connection, repo *repository.DocumentRepository, queueName string) *ExtractWorker {
	return &ExtractWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ExtractWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(d)
			}
		}
	}()

	return nil
}

func (w *ExtractWorker) handle(d amqp.Delivery) {
	var job model.ExtractJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logrus.WithError(err).Error("worker decode extract job failed")
		_ = d.Nack(false, false)
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"job_id":      job.JobID,
		"document_id": job.DocumentID,
	})

	doc, err := w.repo.GetByID(job.DocumentID)
	if err != nil {
		log.WithError(err).Error("worker load document failed")
		_ = d.Nack(false, false)
		return
	}
	if doc == nil {
		// Deleted between upload and extraction; nothing left to do.
		log.Warn("worker skipped missing document")
		_ = d.Ack(false)
		return
	}

	content, status := app.ExtractDocument(doc)
	if err := w.repo.UpdateExtraction(doc.ID, content, status); err != nil {
		log.WithError(err).Error("worker store extraction failed")
		_ = d.Nack(false, false)
		return
	}

	log.WithField("status", status).Info("document extraction finished")
	_ = d.Ack(false)
}

func (w *ExtractWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
