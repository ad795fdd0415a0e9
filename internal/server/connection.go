package server

import (
	"net/http"

	"github.com/palemoky/aoch-leaderboard/internal/logger"
)

// handleWebSocket 处理 WebSocket 连接，读循环在当前请求协程中运行
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := s.clientIPs.ClientIP(r)

	if s.limiter.IsBanned(clientIP) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.LogError("websocket upgrade from %s: %v", clientIP, err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)
	logger.LogInfo("client %s connected from %s", client.ID, clientIP)

	client.SendResponse(&Response{Type: MsgConnected, ClientID: client.ID})

	go client.WritePump()
	client.ReadPump(r.Context())
	logger.LogInfo("client %s disconnected", client.ID)
}
