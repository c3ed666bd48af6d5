package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

type Mux struct{ mux *asynq.ServeMux }

func NewMux() *Mux { return &Mux{mux: asynq.NewServeMux()} }

func (m *Mux) HandleFunc(t string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(t, h)
}

func (m *Mux) Mux() *asynq.ServeMux { return m.mux }

// Server wraps an asynq server bound to the default queue.
type Server struct{ srv *asynq.Server }

func NewServer(opt asynq.RedisClientOpt, concurrency int) *Server {
	return &Server{srv: asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
	})}
}

func (s *Server) Start(m *Mux) error { return s.srv.Start(m.Mux()) }

func (s *Server) Shutdown() { s.srv.Shutdown() }
