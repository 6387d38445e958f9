package websocket

import (
	"net/http"

	"milsonresponse/internal/config"
	"milsonresponse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades chat connections and bridges them to a thread
// subscription. One client per connection; fan-out across connections
// happens upstream in the chat service.
type Handler struct {
	upgrader websocket.Upgrader
	config   *config.WebSocketConfig
	logger   *logger.Logger
}

func NewHandler(cfg *config.WebSocketConfig, log *logger.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		config: cfg,
		logger: log,
	}
}

// Serve upgrades the request and pumps thread snapshots to the peer until
// either side disconnects. Incoming "message" frames are posted through
// post; the resulting snapshot comes back via the stream.
func (h *Handler) Serve(c *gin.Context, stream ThreadStream, post MessagePoster) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		stream.Unsubscribe()
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	peer := &client{
		conn:           conn,
		stream:         stream,
		post:           post,
		logger:         h.logger,
		writeWait:      h.config.WriteWait,
		pongWait:       h.config.PongWait,
		maxMessageSize: h.config.MaxMessageSize,
		outbound:       make(chan Frame, 4),
		done:           make(chan struct{}),
	}

	peer.run(c.Request.Context())
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}
