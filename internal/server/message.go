package server

import (
	"encoding/json"
)

// 消息类型
const (
	MsgRender      = "render"
	MsgLeaderboard = "leaderboard"
	MsgError       = "error"
	MsgConnected   = "connected"
)

// 网关错误码（数据源错误沿用 apperrors 的错误码）
const (
	ErrCodeInvalidMsg  = 2001
	ErrCodeUnknownMode = 2002
	ErrCodeRateLimit   = 2003
)

// Request 客户端请求
type Request struct {
	Type string `json:"type"`
	Mode string `json:"mode,omitempty"`
}

// Response 服务端响应
type Response struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Text     string `json:"text,omitempty"`
	Code     int    `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Encode 编码为 JSON
func (r *Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRequest 解析客户端请求
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{Type: MsgError, Code: code, Message: message}
}
