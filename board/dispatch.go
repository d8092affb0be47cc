package board

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"prism-board/domain"
)

const (
	tracerName       = "prism-board/board"
	dispatchSpanName = "board.dispatch"
)

// HandlerFunc reacts to one event on a controller.
type HandlerFunc func(ctx context.Context, c *Controller, data []byte) error

// Dispatcher routes events to the handler registered for their type.
type Dispatcher struct {
	handlers map[domain.EventType]HandlerFunc
}

// NewDispatcher returns a dispatcher with the handlers of every board event
// already registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[domain.EventType]HandlerFunc, 16)}

	d.Register(domain.EventSelectBoard, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.BoardData](data)
		if err != nil {
			return err
		}
		return c.SetActiveBoard(ctx, p.Board)
	})
	d.Register(domain.EventOpenCreateTask, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.OpenCreateTask(ctx)
	})
	d.Register(domain.EventCancelCreateTask, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.CancelCreateTask(ctx)
	})
	d.Register(domain.EventSubmitCreateTask, func(ctx context.Context, c *Controller, data []byte) error {
		f, err := decode[domain.TaskFields](data)
		if err != nil {
			return err
		}
		_, err = c.CreateTask(ctx, f)
		return err
	})
	d.Register(domain.EventOpenEditTask, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.TaskRef](data)
		if err != nil {
			return err
		}
		return c.OpenEditSession(ctx, p.TaskID)
	})
	d.Register(domain.EventChangeEditForm, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.FormPatch](data)
		if err != nil {
			return err
		}
		return c.UpdateEditForm(ctx, p)
	})
	d.Register(domain.EventSaveTask, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.SaveTask(ctx)
	})
	d.Register(domain.EventDeleteTask, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.DeleteTask(ctx)
	})
	d.Register(domain.EventCancelEditTask, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.CancelEdit(ctx)
	})
	d.Register(domain.EventOpenBoardManager, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.OpenBoardManager(ctx)
	})
	d.Register(domain.EventCloseBoardManager, func(ctx context.Context, c *Controller, _ []byte) error {
		return c.CloseBoardManager(ctx)
	})
	d.Register(domain.EventCreateBoard, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.BoardData](data)
		if err != nil {
			return err
		}
		return c.CreateBoard(ctx, p.Board)
	})
	d.Register(domain.EventDeleteBoard, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.BoardData](data)
		if err != nil {
			return err
		}
		return c.DeleteBoard(ctx, p.Board)
	})
	d.Register(domain.EventToggleSidebar, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.ToggleData](data)
		if err != nil {
			return err
		}
		return c.ToggleSidebar(ctx, p.On)
	})
	d.Register(domain.EventToggleTheme, func(ctx context.Context, c *Controller, data []byte) error {
		p, err := decode[domain.ToggleData](data)
		if err != nil {
			return err
		}
		return c.ToggleTheme(ctx, p.On)
	})
	return d
}

// Register sets the handler for t, replacing any previous one.
func (d *Dispatcher) Register(t domain.EventType, h HandlerFunc) {
	d.handlers[t] = h
}

// Dispatch runs the handler registered for ev.Type inside a trace span.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Controller, ev domain.Event) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, dispatchSpanName)
	defer span.End()
	span.SetAttributes(
		attribute.String("board.event.type", string(ev.Type)),
		attribute.String("board.namespace", c.namespace),
	)

	h, ok := d.handlers[ev.Type]
	var err error
	if !ok {
		err = fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Type)
	} else {
		err = h(ctx, c, ev.Data)
	}
	if board, ok := c.ActiveBoard(); ok {
		span.SetAttributes(attribute.String("board.active", board))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func decode[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := sonic.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	return v, nil
}
