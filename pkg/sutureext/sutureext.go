package sutureext

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// NewSimple returns a supervisor that logs its events with the supervisor
// name attached.
func NewSimple(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(slog.With("package", "sutureext", "supervisor", name)),
	})
}

func EventHook(log *slog.Logger) suture.EventHook {
	return func(e suture.Event) {
		log.Log(context.Background(), eventLevel(e), eventMessage(e), eventAttrs(e)...)
	}
}

func eventLevel(e suture.Event) slog.Level {
	switch e := e.(type) {
	case suture.EventServicePanic:
		return slog.LevelError
	case suture.EventServiceTerminate:
		if e.Restarting {
			return slog.LevelWarn
		}
		return slog.LevelError
	case suture.EventStopTimeout, suture.EventBackoff:
		return slog.LevelWarn
	case suture.EventResume:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func eventMessage(e suture.Event) string {
	switch e.(type) {
	case suture.EventStopTimeout:
		return "Service failed to terminate in a timely manner"
	case suture.EventServicePanic:
		return "Caught a service panic"
	case suture.EventServiceTerminate:
		return "Service failed"
	case suture.EventBackoff:
		return "Too many service failures, entering the backoff state"
	case suture.EventResume:
		return "Exiting backoff state"
	default:
		return "Unknown suture supervisor event type"
	}
}

func eventAttrs(e suture.Event) []any {
	switch e := e.(type) {
	case suture.EventStopTimeout:
		return []any{slog.String("service", e.ServiceName)}
	case suture.EventServicePanic:
		return []any{slog.String("service", e.ServiceName), slog.String("panic", e.PanicMsg), slog.Bool("restarting", e.Restarting), slog.String("stack", e.Stacktrace)}
	case suture.EventServiceTerminate:
		return []any{slog.String("service", e.ServiceName), slog.Any("error", e.Err), slog.Bool("restarting", e.Restarting)}
	case suture.EventBackoff, suture.EventResume:
		return nil
	default:
		b, _ := json.Marshal(e)
		return []any{slog.Int("type", int(e.Type())), slog.String("event", string(b))}
	}
}

// Service forces the use of the String method
type Service interface {
	String() string
	suture.Service
}

func Add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return SanitizeError(ctx, s.Service.Serve(ctx))
}

// SanitizeError prevents the error from being interpreted as a context error unless it
// really is a context error because suture kills the service when it sees a context error.
func SanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}

	var newErrs [3]error

	if errors.Is(err, suture.ErrDoNotRestart) {
		newErrs[0] = suture.ErrDoNotRestart
	}

	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		newErrs[1] = suture.ErrTerminateSupervisorTree
	}

	newErrs[2] = errors.New(err.Error())

	return errors.Join(newErrs[:]...)
}

type ServiceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewServiceFunc(name string, fn func(ctx context.Context) error) ServiceFunc {
	return ServiceFunc{
		name: name,
		fn:   fn,
	}
}

func (s ServiceFunc) String() string {
	return s.name
}

func (s ServiceFunc) Serve(ctx context.Context) error {
	return s.fn(ctx)
}
