package apperrors

import (
	"errors"
	"fmt"
)

// 错误码
const (
	CodeFetch            = 1001 // 数据源不可达
	CodeDecode           = 1002 // 响应格式不符
	CodeEmptyLeaderboard = 1003 // 排行榜为空
)

// AppError 排行榜错误（拉取、解析、渲染共享）
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使 errors.Is(err, ErrEmptyLeaderboard) 对包装后的错误同样成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// 预定义错误
var (
	ErrEmptyLeaderboard = &AppError{Code: CodeEmptyLeaderboard, Message: "leaderboard has no entries"}
)

// NewFetchError 包装网络/传输错误
func NewFetchError(err error) *AppError {
	return &AppError{Code: CodeFetch, Message: "fetch leaderboard", Err: err}
}

// NewDecodeError 包装响应解析错误
func NewDecodeError(err error) *AppError {
	return &AppError{Code: CodeDecode, Message: "decode leaderboard", Err: err}
}

// HasCode 判断错误链中是否存在指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf 返回错误码，非 AppError 返回 0
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

// UserMessage 返回展示给聊天用户的提示
func UserMessage(err error) string {
	switch CodeOf(err) {
	case CodeFetch:
		return "Could not reach the leaderboard, try again later."
	case CodeDecode:
		return "The leaderboard returned data I could not read."
	case CodeEmptyLeaderboard:
		return "Nobody is on this leaderboard yet."
	default:
		return "Something went wrong while rendering the leaderboard."
	}
}
