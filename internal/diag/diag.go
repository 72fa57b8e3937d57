// Package diag implements the read-only diagnostics surface (C14): a
// websocket broadcast of every dispatched event and the mappings it
// resolved to, for external tooling to observe live traffic. It accepts
// no inbound commands — it is a tap, not a configuration editor.
package diag

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/midiflux/midiflux/internal/event"
	"github.com/midiflux/midiflux/internal/registry"
)

// eventMessage is the wire shape of one broadcast frame.
type eventMessage struct {
	Type       string   `json:"type"`
	DeviceID   string   `json:"deviceId"`
	Kind       string   `json:"kind"`
	Channel    uint8    `json:"channel"`
	Note       uint8    `json:"note,omitempty"`
	Velocity   uint8    `json:"velocity,omitempty"`
	Controller uint8    `json:"controller,omitempty"`
	Value      uint8    `json:"value,omitempty"`
	Program    uint8    `json:"program,omitempty"`
	PitchBend  uint16   `json:"pitchBend,omitempty"`
	MatchedIDs []string `json:"matchedMappingIds"`
	Timestamp  string   `json:"timestamp"`
}

// Server broadcasts events to every connected websocket client. It holds
// no mutable engine state of its own beyond its client set.
type Server struct {
	Addr string

	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	broadcast chan []byte
	stop      chan struct{}
}

// NewServer builds a diagnostics server bound to addr (e.g. "127.0.0.1:6480").
func NewServer(addr string) *Server {
	return &Server{
		Addr: addr,
		log:  log.With().Str("module", "Diag").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 64),
		stop:      make(chan struct{}),
	}
}

// Tap has the dispatch.Tap signature (see internal/dispatch): it
// publishes every observed event to connected clients without blocking
// the dispatch path.
func (s *Server) Tap(e event.Event, matched []*registry.Mapping) {
	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.ID)
	}
	msg := eventMessage{
		Type:       "event",
		DeviceID:   e.DeviceID,
		Kind:       string(e.Kind),
		Channel:    e.Channel,
		Note:       e.Note,
		Velocity:   e.Velocity,
		Controller: e.Controller,
		Value:      e.Value,
		Program:    e.Program,
		PitchBend:  e.PitchBend,
		MatchedIDs: ids,
		Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal diagnostics event")
		return
	}
	select {
	case s.broadcast <- data:
	default:
		s.log.Warn().Msg("Diagnostics broadcast channel full, dropping frame")
	}
}

// ListenAndServe starts the websocket server. It blocks until the server
// errors or the process exits.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	go s.run()

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.Addr).Msg("Starting diagnostics websocket server")
	return srv.ListenAndServe()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to upgrade diagnostics websocket")
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("Diagnostics client connected")

	// Drain any client frames (pings, close) without acting on them — this
	// is a read-only tap, never a command channel.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
			return
		}
	}
}

func (s *Server) run() {
	for {
		select {
		case data := <-s.broadcast:
			s.mu.Lock()
			for c := range s.clients {
				if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
					c.Close()
					delete(s.clients, c)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Close stops the broadcast loop.
func (s *Server) Close() {
	close(s.stop)
}
