package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"stylescraper/internal/core/extract"
	"stylescraper/internal/core/session"
	"stylescraper/internal/logger"
	"stylescraper/internal/platform/metrics"
	tasks "stylescraper/internal/platform/tasks"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
)

// Store is the session persistence the orchestrator depends on.
type Store interface {
	Create(ctx context.Context, in session.NewSession) (*session.Session, error)
	Get(ctx context.Context, id int) (*session.Session, error)
	All(ctx context.Context) ([]*session.Session, error)
	Update(ctx context.Context, id int, u session.Update) (*session.Session, error)
	Delete(ctx context.Context, id int) (bool, error)
	Recent(ctx context.Context, limit int) ([]*session.Session, error)
	Statistics(ctx context.Context) (session.Statistics, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Publisher receives a message on "session:<id>" after every status change.
type Publisher interface {
	Publish(ctx context.Context, channel, msg string) error
}

// Enqueuer hands jobs to the asynq queue.
type Enqueuer interface {
	Enqueue(task *asynq.Task, queue string, maxRetries int) error
}

type Service struct {
	log     *logger.Logger
	store   Store
	fetcher Fetcher
	metrics *metrics.Metrics
	events  Publisher
	queue   Enqueuer
	detach  func(job Job)
}

// NewService wires the orchestrator. metrics and events may be nil.
func NewService(store Store, fetcher Fetcher, m *metrics.Metrics, events Publisher) *Service {
	s := &Service{log: logger.New("ScrapeService"), store: store, fetcher: fetcher, metrics: m, events: events}
	s.detach = func(job Job) {
		go func() { _, _ = s.Run(context.Background(), job) }()
	}
	return s
}

// UseQueue routes new jobs through asynq instead of in-process goroutines.
func (s *Service) UseQueue(q Enqueuer) { s.queue = q }

func (s *Service) Store() Store { return s.store }

// Create records a pending session and starts its extraction without
// waiting for it.
func (s *Service) Create(ctx context.Context, url string, opts session.Options) (*session.Session, error) {
	sess, err := s.store.Create(ctx, session.NewSession{
		URL:     url,
		Domain:  session.DomainOf(url),
		Status:  session.StatusPending,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncCreated()

	job := Job{SessionID: sess.ID, URL: sess.URL, Options: sess.Options}
	if err := s.dispatch(job); err != nil {
		// The record exists; surface the failure on it like any other.
		s.log.LogErrorf("dispatch session %d failed: %v", sess.ID, err)
		return s.finish(ctx, sess.ID, nil, fmt.Errorf("dispatch: %w", err), time.Now())
	}
	s.log.LogInfof("session %d created for %s", sess.ID, url)
	return sess, nil
}

func (s *Service) dispatch(job Job) error {
	if s.queue == nil {
		s.detach(job)
		return nil
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	task := asynq.NewTask(tasks.TaskTypeScrapeSession, payload)
	return s.queue.Enqueue(task, tasks.QueueDefault, 0)
}

// HandleTask is the asynq handler for TaskTypeScrapeSession. Session
// failures are recorded on the session, so the task itself always succeeds.
func (s *Service) HandleTask(ctx context.Context, task *asynq.Task) error {
	var job Job
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	_, err := s.Run(ctx, job)
	switch {
	case errors.Is(err, session.ErrNotFound):
		// Sessions live in the enqueuing process; another instance cannot finish them.
		s.log.LogWarnf("session %d not in this process, task dropped", job.SessionID)
	case err != nil:
		s.log.LogErrorf("session %d run: %v", job.SessionID, err)
	}
	return nil
}

// Run drives one session from pending to completed or failed. The returned
// error only reports store problems; scrape failures end up on the session.
func (s *Service) Run(ctx context.Context, job Job) (*session.Session, error) {
	start := time.Now()
	pending := session.StatusPending
	if _, err := s.store.Update(ctx, job.SessionID, session.Update{Status: &pending}); err != nil {
		s.log.LogWarnf("session %d vanished before run: %v", job.SessionID, err)
		return nil, err
	}
	s.publish(ctx, job.SessionID)

	s.log.Info().Int("session", job.SessionID).Str("url", job.URL).Msg("scrape start")
	results, err := s.scrape(ctx, job)
	return s.finish(ctx, job.SessionID, results, err, start)
}

func (s *Service) scrape(ctx context.Context, job Job) (res *session.Results, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("extraction panic: %v", r)
		}
	}()

	body, err := s.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return nil, err
	}
	page, err := extract.Parse(bytes.NewReader(body), job.URL)
	if err != nil {
		return nil, err
	}
	return extract.Run(page, job.Options)
}

func (s *Service) finish(ctx context.Context, id int, results *session.Results, runErr error, start time.Time) (*session.Session, error) {
	var u session.Update
	if runErr != nil {
		status := session.StatusFailed
		msg := runErr.Error()
		if msg == "" {
			msg = "Unknown error occurred"
		}
		u = session.Update{Status: &status, ErrorMessage: &msg}
		s.log.Info().Int("session", id).Str("error", msg).Msg("scrape failed")
	} else {
		status := session.StatusCompleted
		u = session.Update{Status: &status, Results: results}
		s.log.Info().Int("session", id).Msg("scrape complete")
	}

	final, err := s.store.Update(ctx, id, u)
	if err != nil {
		s.log.LogWarnf("session %d not updated: %v", id, err)
		return nil, err
	}
	s.metrics.ObserveFinished(string(final.Status), time.Since(start))
	s.publish(ctx, id)
	return final, nil
}

func (s *Service) publish(ctx context.Context, id int) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, "session:"+strconv.Itoa(id), "updated"); err != nil {
		s.log.LogDebugf("publish session %d: %v", id, err)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCreate returns field-level problems with req, or nil.
func ValidateCreate(req CreateRequest) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "http_url", "url":
		return fe.Field() + " must be a valid http or https URL"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
