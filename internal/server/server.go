// Package server is the HTTP and WebSocket gateway to the leaderboard
// renderer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/palemoky/aoch-leaderboard/internal/config"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/service"
)

// Server HTTP / WebSocket 网关
type Server struct {
	config    config.ServerConfig
	svc       service.Renderer
	limiter   *RateLimiter
	origins   *OriginChecker
	clientIPs *ClientIPResolver
	upgrader  websocket.Upgrader
	handler   http.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
}

// NewServer 创建网关
func NewServer(cfg config.ServerConfig, svc service.Renderer) *Server {
	s := &Server{
		config:    cfg,
		svc:       svc,
		limiter:   NewRateLimiter(cfg.RateLimit.MaxPerMinute, cfg.RateLimit.BanDurationTime()),
		origins:   NewOriginChecker(cfg.AllowedOrigins),
		clientIPs: NewClientIPResolver(cfg.TrustedProxies),
		clients:   make(map[string]*Client),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.origins.Check,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard/{mode}", s.handleLeaderboard).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return c.Handler(r)
}

// Handler 返回完整的路由（含 CORS）
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start 启动服务，ctx 取消时关闭
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(shutdownCtx)
	}()

	logger.LogInfo("Gateway listening on http://%s (ws: /ws, api: /api/leaderboard/{mode})", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 关闭 HTTP 服务并断开所有 WebSocket 客户端
func (s *Server) Shutdown(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logger.LogError("gateway shutdown: %v", err)
		}
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		_ = c.conn.Close()
	}
}

// GetOnlineCount 获取在线客户端数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) registerClient(c *Client) {
	s.clientsMu.Lock()
	s.clients[c.ID] = c
	s.clientsMu.Unlock()
}

func (s *Server) unregisterClient(c *Client) {
	s.clientsMu.Lock()
	delete(s.clients, c.ID)
	s.clientsMu.Unlock()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.LogDebug("[%s] %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}
