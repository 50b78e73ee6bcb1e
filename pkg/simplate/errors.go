package simplate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPlaceholder 占位符在文本结束前没有闭合。
	ErrMalformedPlaceholder = errors.New("simplate: malformed placeholder")
	// ErrUnknownToken 所有值源都不包含占位符名称。
	ErrUnknownToken = errors.New("simplate: unknown token")
	// ErrDuplicateName 同一值源内重复注册名称。
	ErrDuplicateName = errors.New("simplate: duplicate name")
	// ErrEmptyName 注册的名称为空。
	ErrEmptyName = errors.New("simplate: empty name")
	// ErrUnsupportedValue 无法转换为 [Value] 的值类型。
	ErrUnsupportedValue = errors.New("simplate: unsupported value")
	// ErrLimitExceeded 展开深度或替换次数超过上限。
	ErrLimitExceeded = errors.New("simplate: expansion limit exceeded")
)

// MalformedPlaceholderError 描述未闭合的占位符。
type MalformedPlaceholderError struct {
	Offset int    // 起始 "{{" 在当前缓冲区中的偏移
	Text   string // 从 Offset 开始的剩余文本（过长时截断）
}

func (e *MalformedPlaceholderError) Error() string {
	return fmt.Sprintf("simplate: malformed placeholder at offset %d: %q", e.Offset, e.Text)
}

func (e *MalformedPlaceholderError) Unwrap() error { return ErrMalformedPlaceholder }

// UnknownTokenError 描述无法解析的占位符名称。
//
// Suggestions 为各值源中与名称相近的候选，可能为空。
type UnknownTokenError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownTokenError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("simplate: token %q not found in data", e.Name)
	}

	return fmt.Sprintf("simplate: token %q not found in data (did you mean %s?)",
		e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownTokenError) Unwrap() error { return ErrUnknownToken }

// LimitError 描述触发的展开上限。
type LimitError struct {
	Kind  string // "depth" 或 "expansions"
	Limit int
	Name  string // 触发上限时正在处理的占位符
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("simplate: %s limit %d exceeded at %q", e.Kind, e.Limit, e.Name)
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }

const maxSnippet = 64

func snippet(text string) string {
	if len(text) <= maxSnippet {
		return text
	}

	return text[:maxSnippet] + "..."
}
