package wshandler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"

	"github.com/studyhub/webclient/pkg/model"
)

// WebMessage is one push to the local UI: a session change or an
// invitation change.
type WebMessage struct {
	Typ        string            `json:"type"`
	Session    *model.Session    `json:"session,omitempty"`
	Invitation *model.Invitation `json:"invitation,omitempty"`
	SessionID  uint              `json:"sessionId,omitempty"`
}

type JSONWsHandler struct {
	log    *slog.Logger
	name   string
	ws     *websocket.Conn
	ch     chan *WebMessage
	active int32

	mx sync.Mutex
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn) *JSONWsHandler {
	return &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *WebMessage, 10),
		active: 1,
	}
}

func (w *JSONWsHandler) Name() string {
	return w.name
}

func (w *JSONWsHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *JSONWsHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		// a concurrent SendMessage must never hit the closed channel
		w.mx.Lock()
		close(w.ch)
		w.mx.Unlock()

		if w.ws != nil {
			w.ws.Close()
		}
	}
}

func (w *JSONWsHandler) writer() {
	for item := range w.ch {
		if !w.IsActive() {
			return
		}

		if item == nil {
			continue
		}

		_ = w.ws.WriteJSON(item)
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		_, _, err := w.ws.ReadMessage()

		if err != nil {
			w.log.Debug("read done", slog.Any("error", err))

			return
		}
	}
}

// Listen blocks until the peer goes away.
func (w *JSONWsHandler) Listen() {
	go w.writer()
	w.reader()
}

func (w *JSONWsHandler) SendMessage(msg *WebMessage) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	if !w.IsActive() {
		return false
	}

	select {
	case w.ch <- msg:
		return true
	default:
		return false
	}
}
