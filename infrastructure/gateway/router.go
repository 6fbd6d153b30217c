// Package gateway serves the browser facing side: a websocket per watched
// channel plus health and monitoring endpoints.
package gateway

import (
	"chat-channels/auth"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/services"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Config struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
}

func DefaultConfig() Config {
	return Config{WriteWait: 10 * time.Second, PongWait: 60 * time.Second, MaxMessageSize: 16 << 10}
}

type Gateway struct {
	log         *slog.Logger
	chatService services.IChatService
	issuer      *auth.TokenIssuer
	monitoring  *Monitoring
	config      Config
	upgrader    websocket.Upgrader
}

func NewGateway(log *slog.Logger, chatService services.IChatService, issuer *auth.TokenIssuer,
	monitoring *Monitoring, config Config) *Gateway {
	return &Gateway{
		log:         log,
		chatService: chatService,
		issuer:      issuer,
		monitoring:  monitoring,
		config:      config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/monitoring", g.monitoring.ServeHTTP).Methods(http.MethodGet)
	router.HandleFunc("/ws/channels/{channel_id}", g.serveChannel).Methods(http.MethodGet)
	return router
}

// authenticate accepts the bearer token from the Authorization header or,
// since browsers cannot set headers on a websocket, the token query param.
func (g *Gateway) authenticate(r *http.Request) (chat.UserID, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return "", errors.ErrUnauthenticated
	}
	claims, err := g.issuer.ValidateToken(token)
	if err != nil {
		return "", errors.Wrap(errors.ErrUnauthenticated, err)
	}
	return chat.UserID(claims.UserID), nil
}
