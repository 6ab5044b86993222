// Package stream serves a generated event table over WebSocket, replaying
// rows in timestamp order so downstream consumers can be exercised against a
// live-looking telemetry feed.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/observability"
)

// Frame is one replayed event on the wire.
type Frame struct {
	GameUserID string `json:"game_user_id"`
	EventTime  string `json:"event_time"`
	EventName  string `json:"event_name"`
	SessionID  string `json:"session_id"`
	Params     string `json:"params,omitempty"`
}

// Config configures the replay server.
type Config struct {
	// Addr is the listen address, e.g. ":8090".
	Addr string

	// Speed compresses simulated time: 3600 replays one hour of telemetry
	// per wall-clock second. Zero or negative means no delay at all.
	Speed float64

	// MaxDelay caps the wall-clock gap between two frames regardless of
	// the simulated gap.
	MaxDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8090"
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 2 * time.Second
	}
	return c
}

// Server replays an event table to WebSocket clients.
type Server struct {
	cfg      Config
	events   []domain.Event
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer creates a replay server over a copy of events, sorted by
// timestamp. Corrupted rows carrying a raw timestamp string replay in their
// shuffled position with the raw value.
func NewServer(cfg Config, events []domain.Event) *Server {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMs < sorted[j].TimestampMs
	})

	return &Server{
		cfg:    cfg.withDefaults(),
		events: sorted,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP mux with the replay, health and metrics routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", observability.Handler())
	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	logrus.WithFields(logrus.Fields{
		"addr":   s.cfg.Addr,
		"events": len(s.events),
	}).Info("replay server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	observability.RecordStreamClient(1)
	defer observability.RecordStreamClient(-1)

	logrus.WithField("remote", conn.RemoteAddr().String()).Info("replay client connected")

	sent, err := s.replay(r.Context(), conn)
	if err != nil {
		logrus.WithError(err).WithField("sent", sent).Info("replay client disconnected")
		return
	}

	logrus.WithField("sent", sent).Info("replay complete")
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
}

// replay writes every event as a JSON text frame, pacing frames by the
// compressed simulated gap between consecutive timestamps.
func (s *Server) replay(ctx context.Context, conn *websocket.Conn) (int, error) {
	var prevMs int64
	sent := 0

	for i := range s.events {
		e := &s.events[i]

		if delay := s.frameDelay(prevMs, e.TimestampMs); delay > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(delay):
			}
		}
		prevMs = e.TimestampMs

		frame := Frame{
			GameUserID: e.GameUserID,
			EventTime:  eventTime(e),
			EventName:  e.Name,
			SessionID:  e.SessionID,
			Params:     e.Params,
		}
		payload, err := json.Marshal(frame)
		if err != nil {
			return sent, err
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return sent, err
		}

		sent++
		observability.RecordEventsReplayed(1)
	}

	return sent, nil
}

func (s *Server) frameDelay(prevMs, curMs int64) time.Duration {
	if s.cfg.Speed <= 0 || prevMs == 0 || curMs <= prevMs {
		return 0
	}
	delay := time.Duration(float64(curMs-prevMs) / s.cfg.Speed * float64(time.Millisecond))
	if delay > s.cfg.MaxDelay {
		delay = s.cfg.MaxDelay
	}
	return delay
}

func eventTime(e *domain.Event) string {
	if e.RawTimeSet {
		return e.RawTime
	}
	return time.UnixMilli(e.TimestampMs).UTC().Format("2006-01-02T15:04:05.000Z")
}
