package tasks

import (
	"stylescraper/internal/platform/redis"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeScrapeSession = "session:scrape"
	QueueDefault          = "default"
)

type Client struct{ c *asynq.Client }

func New(r *redis.Service) *Client { return &Client{c: asynq.NewClient(r.AsynqRedisOpt())} }

// Enqueue puts task on queue. maxRetries of 0 means a failed task is not retried.
func (t *Client) Enqueue(task *asynq.Task, queue string, maxRetries int) error {
	_, err := t.c.Enqueue(task, asynq.Queue(queue), asynq.MaxRetry(maxRetries))
	return err
}

func (t *Client) Close() error { return t.c.Close() }
