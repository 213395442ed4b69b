package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxVisionLogSnippetRunes = 1024

// logVisionExchange 输出视觉模型请求与响应的关键片段，方便排查模型行为。
// AI 调用失败会被转换为兜底载荷，这里保证失败本身仍然可见。
func logVisionExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[vision %s] %s: <empty>", kind, phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxVisionLogSnippetRunes {
		snippet = string([]rune(trimmed)[:maxVisionLogSnippetRunes]) + "…(truncated)"
	}
	log.Printf("[vision %s] %s (runes=%d): %s", kind, phase, runeCount, snippet)
}
