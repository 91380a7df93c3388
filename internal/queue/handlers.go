package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Registry binds notification task types to their processing funcs and builds
// the worker mux.
type Registry struct {
	mux *asynq.ServeMux
}

func NewRegistry() *Registry {
	return &Registry{mux: asynq.NewServeMux()}
}

func (r *Registry) Handle(taskType string, fn func(context.Context, *asynq.Task) error) {
	r.mux.Handle(taskType, asynq.HandlerFunc(fn))
}

func (r *Registry) Mux() *asynq.ServeMux {
	return r.mux
}
