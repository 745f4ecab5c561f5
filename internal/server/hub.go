package server

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"thawlab/internal/config"
	"thawlab/internal/grid"
	"thawlab/internal/integrators"
	"thawlab/internal/sim"
)

// Msg is the wire envelope in both directions.
type Msg struct {
	Type    string          `json:"type"`
	Preset  string          `json:"preset,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Progress reports completed grid rows while a computation runs.
type Progress struct {
	Row  int `json:"row"`
	Rows int `json:"rows"`
}

// Hub serves one plotter connection: it accepts start/stop requests and
// streams progress plus the final grid back.
type Hub struct {
	conn *websocket.Conn
	log  *logrus.Logger
}

func NewHub(conn *websocket.Conn, log *logrus.Logger) *Hub {
	return &Hub{conn: conn, log: log}
}

// Run reads requests until the connection drops or ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		var msg Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			h.log.WithError(err).Info("plotter disconnected")
			return
		}

		switch msg.Type {
		case "start":
			h.handleStart(ctx, msg)
		case "ping":
			h.reply(Msg{Type: "pong"})
		default:
			h.log.WithField("type", msg.Type).Warn("unknown message type")
			h.reply(Msg{Type: "error", Content: errContent("unknown message type: " + msg.Type)})
		}
	}
}

func (h *Hub) handleStart(ctx context.Context, msg Msg) {
	cfg := config.DefaultConfig()
	if msg.Preset != "" {
		if p := config.GetPreset(msg.Preset); p != nil {
			c := *p
			cfg = &c
		} else {
			h.reply(Msg{Type: "error", Content: errContent("unknown preset: " + msg.Preset)})
			return
		}
	}
	if len(msg.Content) > 0 {
		if err := json.Unmarshal(msg.Content, cfg); err != nil {
			h.reply(Msg{Type: "error", Content: errContent("bad config: " + err.Error())})
			return
		}
	}

	newInteg, err := integratorFactory(cfg.Integrator)
	if err != nil {
		h.reply(Msg{Type: "error", Content: errContent(err.Error())})
		return
	}

	s, err := grid.New(cfg.ToGrid(), newInteg)
	if err != nil {
		h.reply(Msg{Type: "error", Content: errContent(err.Error())})
		return
	}

	h.reply(Msg{Type: "started"})
	h.log.WithFields(logrus.Fields{
		"samples": cfg.Samples,
		"steps":   cfg.Steps,
	}).Info("grid run started")

	result, err := s.ComputeWithProgress(ctx, func(row, rows int) {
		h.reply(Msg{Type: "progress", Content: mustJSON(Progress{Row: row, Rows: rows})})
	})
	if err != nil {
		h.reply(Msg{Type: "error", Content: errContent(err.Error())})
		return
	}

	h.reply(Msg{Type: "result", Content: mustJSON(result)})
	h.log.WithField("converged", result.ConvergedCount()).Info("grid run finished")
}

func (h *Hub) reply(msg Msg) {
	if err := h.conn.WriteJSON(&msg); err != nil {
		h.log.WithError(err).Error("write failed")
	}
}

func errContent(s string) json.RawMessage {
	return mustJSON(struct {
		Error string `json:"error"`
	}{s})
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

func integratorFactory(name string) (func() sim.Integrator, error) {
	// Probe once so a bad name fails before the run starts.
	if _, err := integrators.New(name); err != nil {
		return nil, err
	}
	return func() sim.Integrator {
		integ, _ := integrators.New(name)
		return integ
	}, nil
}
