package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/jobinvoicer/esign/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) NotifySigner(ctx context.Context, signerID uuid.UUID) error {
	return c.enqueue(TypeSignerNotify, SignerNotifyPayload{SignerID: signerID.String()},
		asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
}

func (c *Client) NotifyCompleted(ctx context.Context, documentID uuid.UUID) error {
	return c.enqueue(TypeDocumentCompleted, DocumentCompletedPayload{DocumentID: documentID.String()},
		asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
