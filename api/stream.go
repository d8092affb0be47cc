package api

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

const sseDataPrefix = "data: "

// updateBroker fans out change notifications to the SSE subscribers of each
// namespace.
type updateBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newUpdateBroker() *updateBroker {
	return &updateBroker{subs: make(map[string]map[chan struct{}]struct{})}
}

func (b *updateBroker) subscribe(ns string) chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	if b.subs[ns] == nil {
		b.subs[ns] = make(map[chan struct{}]struct{})
	}
	b.subs[ns][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *updateBroker) unsubscribe(ns string, ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs[ns], ch)
	if len(b.subs[ns]) == 0 {
		delete(b.subs, ns)
	}
	b.mu.Unlock()
}

// notify wakes every subscriber of ns. Pending wakeups are coalesced.
func (b *updateBroker) notify(ns string) {
	b.mu.Lock()
	for ch := range b.subs[ns] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

func streamView(sessions Sessions, auth Authenticator, broker *updateBroker) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, auth)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		ctx := c.Request().Context()
		ch := broker.subscribe(userID)
		defer broker.unsubscribe(userID, ch)

		sess := sessions.Get(userID)
		for {
			doc, err := sess.View(ctx)
			if err != nil {
				c.Logger().Error(err)
				return err
			}
			data, err := sonic.Marshal(doc)
			if err != nil {
				c.Logger().Error(err)
				return err
			}
			if _, err := c.Response().Write([]byte(sseDataPrefix)); err != nil {
				return err
			}
			if _, err := c.Response().Write(data); err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return err
			}
			flusher.Flush()
			select {
			case <-ctx.Done():
				return nil
			case <-ch:
			}
		}
	}
}
