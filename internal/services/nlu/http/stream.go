package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"time"

	perr "vaani/internal/platform/errors"
	"vaani/internal/platform/logger"
	pnet "vaani/internal/platform/net"
	"vaani/internal/platform/net/http/bind"
	"vaani/internal/services/nlu/domain"

	"github.com/gorilla/websocket"
)

// StreamOptions tune the websocket endpoint
type StreamOptions struct {
	// Origins allowed to connect, empty or "*" allows any
	Origins []string
	// Idle closes a connection that sends nothing for this long
	Idle time.Duration
	// MaxFrame caps one inbound message in bytes
	MaxFrame int64
}

type stream struct {
	svc      domain.ProcessorPort
	up       websocket.Upgrader
	idle     time.Duration
	maxFrame int64
}

func newStream(s domain.ProcessorPort, o StreamOptions) *stream {
	if o.Idle <= 0 {
		o.Idle = 60 * time.Second
	}
	if o.MaxFrame <= 0 {
		o.MaxFrame = 16 << 10
	}
	return &stream{
		svc:      s,
		idle:     o.Idle,
		maxFrame: o.MaxFrame,
		up: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originCheck(o.Origins),
		},
	}
}

func originCheck(allowed []string) func(*stdhttp.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			allowed = nil
			break
		}
	}
	return func(r *stdhttp.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// @Summary Websocket, one text frame in and one result frame out
// @Tags NLU
// @Router /nlu/stream [get]
func (s *stream) serve(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	log := logger.C(r.Context())
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an http error
		log.Debug().Err(err).Msg("stream upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxFrame)

	session := pnet.SessionID(r.Context())
	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.idle))
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("stream closed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		reply := s.handle(r, msg, session)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("stream write failed")
			return
		}
	}
}

func (s *stream) handle(r *stdhttp.Request, msg []byte, session string) domain.StreamReply {
	var f domain.StreamFrame
	if err := json.Unmarshal(msg, &f); err != nil {
		return domain.StreamReply{Error: "invalid JSON frame"}
	}
	if err := bind.Validate(&f); err != nil {
		return domain.StreamReply{Error: perr.WireFrom(err).Message}
	}
	if f.SessionID != "" {
		session = f.SessionID
	}
	res, err := s.svc.Process(r.Context(), domain.ProcessInput{Text: f.Text, SessionID: session})
	if err != nil {
		return domain.StreamReply{Error: perr.WireFrom(err).Message}
	}
	return domain.StreamReply{OK: true, Result: &res}
}
