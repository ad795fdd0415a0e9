package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// widthCond 等宽显示列宽；东亚歧义字符一律按窄字符计算，与宿主 locale 无关
var widthCond = runewidth.NewCondition()

// StripEmoji 去除 emoji（图形符号、国旗、肤色、键帽、ZWJ 序列），其余字符原样保序
//
// 以 emoji 开头的字素簇（以及键帽序列）整体删除；普通字符后面挂着的
// 肤色修饰符、变体选择符等只删除这些 emoji 码点本身，字符保留。
func StripEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		switch {
		case isEmojiRune(runes[0]), isKeycap(runes):
			continue
		case !hasEmojiRune(runes):
			b.WriteString(gr.Str())
		default:
			for _, r := range runes {
				if !isEmojiRune(r) {
					b.WriteRune(r)
				}
			}
		}
	}
	return b.String()
}

func hasEmojiRune(runes []rune) bool {
	for _, r := range runes {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

// isKeycap 键帽序列：0-9 # * 后接 U+20E3（中间可有 U+FE0F）
func isKeycap(runes []rune) bool {
	if len(runes) < 2 || runes[len(runes)-1] != 0x20E3 {
		return false
	}
	r := runes[0]
	return (r >= '0' && r <= '9') || r == '#' || r == '*'
}

// isEmojiRune 只在 emoji 中出现的码点。ZWJ 不算：多种文字会用到它，
// 而 emoji ZWJ 序列总是以图形符号开头。
func isEmojiRune(r rune) bool {
	switch {
	// 麻将、扑克、带圈补充、区域指示符、图形符号、表情、交通、肤色修饰符
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	// 杂项符号与装饰符号
	case r >= 0x2600 && r <= 0x27BF:
		return true
	// 默认文本呈现的 emoji（© ® ‼ ⁉ ™ ℹ 箭头 Ⓜ 几何图形）
	case r == 0x00A9 || r == 0x00AE || r == 0x203C || r == 0x2049:
		return true
	case r == 0x2122 || r == 0x2139 || r == 0x24C2:
		return true
	case r >= 0x2194 && r <= 0x2199, r == 0x21A9 || r == 0x21AA:
		return true
	case r == 0x25AA || r == 0x25AB || r == 0x25B6 || r == 0x25C0:
		return true
	case r >= 0x25FB && r <= 0x25FE:
		return true
	case r == 0x231A || r == 0x231B || r == 0x2328 || r == 0x23CF:
		return true
	case r >= 0x23E9 && r <= 0x23FA:
		return true
	case r == 0x2934 || r == 0x2935 || r == 0x2B05 || r == 0x2B06 || r == 0x2B07:
		return true
	case r == 0x2B1B || r == 0x2B1C || r == 0x2B50 || r == 0x2B55:
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	// emoji 变体选择符与组合键帽
	case r == 0xFE0F || r == 0x20E3:
		return true
	// 地区旗帜使用的标签字符
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	default:
		return false
	}
}

// Truncate 返回最多 maxUnits 个码点的最长前缀，不会截断多字节字符
func Truncate(text string, maxUnits int) string {
	if maxUnits <= 0 {
		return ""
	}
	count := 0
	for idx := range text {
		if count == maxUnits {
			return text[:idx]
		}
		count++
	}
	return text
}

// DisplayWidth 等宽字体下的显示列宽
func DisplayWidth(s string) int {
	return widthCond.StringWidth(s)
}

// padRight 左对齐到指定显示宽度，超长时原样返回
func padRight(s string, width int) string {
	return widthCond.FillRight(s, width)
}
