// Package ws serves live translation over a websocket: every JSON message
// {from, to, text} is answered with {text} or {error}.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heartmarshall/gibberify/internal/transport/rest"
	"github.com/heartmarshall/gibberify/pkg/ctxutil"
)

const (
	maxMessageBytes = 64 << 10
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	writeWait       = 10 * time.Second
)

type translatorService interface {
	Translate(ctx context.Context, langIn, langOut, text string) (string, error)
}

// Handler upgrades GET /ws and translates every incoming message.
type Handler struct {
	svc      translatorService
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. origins follows the CORS setting: a
// comma-separated allow list, "*" for any origin, empty for same-origin only.
func NewHandler(svc translatorService, logger *slog.Logger, origins string) *Handler {
	h := &Handler{svc: svc, log: logger.With("handler", "ws")}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(origins),
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	log := ctxutil.Logger(ctx, h.log)
	log.DebugContext(ctx, "websocket connected")

	s := &session{conn: conn}
	go s.ping(ctx)

	conn.SetReadLimit(maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WarnContext(ctx, "websocket closed", slog.String("error", err.Error()))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := h.handle(ctx, log, msg)
		if err := s.write(resp); err != nil {
			log.WarnContext(ctx, "websocket write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (h *Handler) handle(ctx context.Context, log *slog.Logger, msg []byte) rest.TranslateResponse {
	var req rest.TranslateRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return rest.TranslateResponse{Error: "invalid message"}
	}
	text, err := h.svc.Translate(ctx, req.From, req.To, req.Text)
	if err != nil {
		status, message := rest.ErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.ErrorContext(ctx, "internal error", slog.String("error", err.Error()))
		}
		return rest.TranslateResponse{Error: message}
	}
	return rest.TranslateResponse{Text: text}
}

// session serialises writes: gorilla connections allow one concurrent writer.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

func (s *session) ping(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func checkOrigin(origins string) func(r *http.Request) bool {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
