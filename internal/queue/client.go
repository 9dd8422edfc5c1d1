package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/emcoach/internal/config"
)

const analysisTimeout = 10 * time.Minute

type Client struct {
	client *asynq.Client
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueAnalysisRun queues one analysis. Runs are never retried: a failed
// transcription or coaching call is reported, not repeated.
func (c *Client) EnqueueAnalysisRun(payload AnalysisRunPayload) error {
	return c.enqueue(TypeAnalysisRun, payload,
		asynq.TaskID(payload.ReportID),
		asynq.MaxRetry(0),
		asynq.Timeout(analysisTimeout),
	)
}

func (c *Client) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	task, err := NewTask(taskType, payload)
	if err != nil {
		return err
	}
	if _, err := c.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// NewTask marshals payload into an asynq task.
func NewTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(taskType, data), nil
}
