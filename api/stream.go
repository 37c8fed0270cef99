package api

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"project-board/domain"
)

// listBroker is one list's permanent store subscriber. It filters every
// snapshot by its bound status, renders and marshals the view once, and
// wakes the SSE connections watching the list.
type listBroker struct {
	status domain.Status
	logger *log.Logger

	mu     sync.Mutex
	latest []byte
	subs   map[chan struct{}]struct{}
}

func newListBroker(status domain.Status, logger *log.Logger) *listBroker {
	return &listBroker{
		status: status,
		logger: logger,
		latest: []byte("[]"),
		subs:   make(map[chan struct{}]struct{}),
	}
}

// update is the board.Listener bound to this broker. Each call is a
// total-state snapshot, never a delta.
func (b *listBroker) update(snapshot []domain.Project) {
	data, err := sonic.Marshal(renderList(snapshot, b.status))
	if err != nil {
		b.logger.Errorf("marshal %s list: %v", b.status, err)
		return
	}
	b.mu.Lock()
	b.latest = data
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *listBroker) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *listBroker) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *listBroker) view() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// registerStreams binds one broker per list as a permanent store listener
// and exposes the SSE endpoints.
func registerStreams(e *echo.Echo, b Board, logger *log.Logger) {
	for _, status := range []domain.Status{domain.StatusActive, domain.StatusFinished} {
		broker := newListBroker(status, logger)
		broker.update(b.Projects())
		b.AddListener(broker.update)
		e.GET("/api/lists/"+status.String()+"/stream", streamList(broker))
	}
}

func streamList(broker *listBroker) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		ctx := c.Request().Context()
		ch := broker.subscribe()
		defer broker.unsubscribe(ch)
		for {
			if _, err := c.Response().Write([]byte("data: ")); err != nil {
				return nil
			}
			if _, err := c.Response().Write(broker.view()); err != nil {
				return nil
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return nil
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
