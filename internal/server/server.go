// Package server pushes grid computations to a browser-side plotter
// over a websocket.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func New(addr string, log *logrus.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.WithField("remote", conn.RemoteAddr().String()).Info("plotter connected")

	hub := NewHub(conn, s.log)
	hub.Run(r.Context())
}

func (s *Server) Serve() error {
	http.HandleFunc("/ws", s.serveWs)
	s.log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, nil)
}
