package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
)

// Terminal 输出到终端；未设置 Raw 时去掉代码块标记并画圆角边框
type Terminal struct {
	W     io.Writer
	Title string
	Raw   bool
}

// NewTerminal 创建带边框的终端输出
func NewTerminal(w io.Writer, title string) *Terminal {
	return &Terminal{W: w, Title: title}
}

func (t *Terminal) Display(_ context.Context, text string) error {
	if err := checkLength(text); err != nil {
		return err
	}
	if t.Raw {
		_, err := fmt.Fprintln(t.W, text)
		return err
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(titleStyle.Render(t.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(boxStyle.Render(Unfence(text)))
	_, err := fmt.Fprintln(t.W, sb.String())
	return err
}

// Unfence 去掉外层代码块标记（如果有）
func Unfence(text string) string {
	body := strings.TrimPrefix(text, "```\n")
	body = strings.TrimSuffix(body, "\n```")
	return body
}
