package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"prism-board/board"
	"prism-board/domain"
	"prism-board/view"
)

const (
	postEventsMaxSize    = 64 * 1024 // 64 KiB
	maxEventsPerRequest  = 64
	headerIdempotencyKey = "Idempotency-Key"
)

// eventsResponse is the body of POST /api/events.
type eventsResponse struct {
	Document  *view.Document `json:"document,omitempty"`
	Processed int            `json:"processed"`
	Duplicate bool           `json:"duplicate,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Register wires up all board routes on the provided Echo instance. deduper
// may be nil, in which case Idempotency-Key headers are ignored.
func Register(e *echo.Echo, sessions Sessions, auth Authenticator, deduper Deduper, logger *log.Logger) {
	broker := newUpdateBroker()
	dispatcher := board.NewDispatcher()

	e.GET("/", getPage(sessions, auth))
	e.GET("/api/view", getView(sessions, auth))
	e.POST("/api/events", postEvents(sessions, dispatcher, auth, deduper, broker, logger), GzipRequestMiddleware())
	e.GET("/stream", streamView(sessions, auth, broker))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// authenticate resolves the namespace of the request. Browsers cannot set
// headers on page loads and EventSource, so a token query parameter is
// accepted as well.
func authenticate(c echo.Context, auth Authenticator) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token := c.QueryParam("token"); header == "" && token != "" {
		header = "Bearer " + token
	}
	return auth.UserIDFromAuthHeader(header)
}

func getPage(sessions Sessions, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, auth)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		doc, err := sessions.Get(userID).View(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.Render(http.StatusOK, view.PageTemplate, doc)
	}
}

func getView(sessions Sessions, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, auth)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		doc, err := sessions.Get(userID).View(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, doc)
	}
}

func postEvents(sessions Sessions, dispatcher *board.Dispatcher, auth Authenticator, deduper Deduper, broker *updateBroker, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newRequestMetrics(ctx, logger, "/api/events")
		c.SetRequest(c.Request().WithContext(spanCtx))
		ctx = spanCtx
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			return c.String(http.StatusUnauthorized, authErr.Error())
		}
		metrics.SetNamespace(userID)

		events, decodeErr := decodeEvents(c.Request().Body)
		if decodeErr != nil {
			metrics.SetErrorStage("decode")
			return c.JSON(http.StatusBadRequest, eventsResponse{Error: decodeErr.Error()})
		}

		sess := sessions.Get(userID)
		key := strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
		if key != "" && deduper != nil {
			claimed, prior, dedupeErr := deduper.Claim(ctx, userID, key)
			if dedupeErr != nil {
				metrics.SetErrorStage("dedupe")
				c.Logger().Error(dedupeErr)
				return c.JSON(http.StatusInternalServerError, eventsResponse{Error: "failed to record idempotency key"})
			}
			if !claimed {
				metrics.SetDuplicate(true)
				doc, viewErr := sess.View(ctx)
				if viewErr != nil {
					metrics.SetErrorStage("storage")
					return c.JSON(http.StatusInternalServerError, eventsResponse{Error: viewErr.Error()})
				}
				resp := eventsResponse{Document: doc, Duplicate: true}
				status := http.StatusOK
				if prior != nil {
					resp.Processed = prior.Processed
					resp.Error = prior.Error
					status = prior.Status
				}
				return c.JSON(status, resp)
			}
		}

		processed := 0
		dispatchStart := time.Now()
		doc, dispatchErr := sess.Do(ctx, func(ctx context.Context, ctrl *board.Controller) error {
			for _, ev := range events {
				if err := dispatcher.Dispatch(ctx, ctrl, ev); err != nil {
					return err
				}
				processed++
			}
			return nil
		})
		metrics.ObserveDispatch(time.Since(dispatchStart))
		metrics.SetEvents(len(events), processed)
		if processed > 0 {
			broker.notify(userID)
		}

		status := http.StatusOK
		resp := eventsResponse{Document: doc, Processed: processed}
		if dispatchErr != nil {
			status = statusForError(dispatchErr)
			if status >= http.StatusInternalServerError {
				metrics.SetErrorStage("storage")
				c.Logger().Error(dispatchErr)
			} else {
				metrics.SetErrorStage("event")
			}
			resp.Error = dispatchErr.Error()
		}
		if key != "" && deduper != nil {
			settleIdempotencyKey(ctx, c, deduper, userID, key, BatchOutcome{Status: status, Processed: processed, Error: resp.Error})
		}
		return c.JSON(status, resp)
	}
}

// settleIdempotencyKey frees the key of a failed batch that applied no event
// and records the outcome of every other batch.
func settleIdempotencyKey(ctx context.Context, c echo.Context, deduper Deduper, userID, key string, o BatchOutcome) {
	if o.Processed == 0 && o.Error != "" {
		if err := deduper.Release(ctx, userID, key); err != nil {
			c.Logger().Errorf("idempotency release failed: %v", err)
		}
		return
	}
	if err := deduper.Record(ctx, userID, key, o); err != nil {
		c.Logger().Errorf("idempotency record failed: %v", err)
	}
}

var errTooManyEvents = errors.New("too many events")

func decodeEvents(body io.Reader) ([]domain.Event, error) {
	lr := io.LimitReader(body, postEventsMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()

	events := make([]domain.Event, 0, 4)
	if err := dec.Decode(&events); err != nil {
		return nil, errors.New("invalid body")
	}
	if len(events) > maxEventsPerRequest {
		return nil, errTooManyEvents
	}
	return events, nil
}

// statusForError maps controller errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnsavedChanges):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrBoardNotFound):
		return http.StatusNotFound
	case board.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
