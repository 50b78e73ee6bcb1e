package simplate

import "bytes"

// ═══════════════════════════════════════════════════════════════════════════
// 占位符扫描
// ═══════════════════════════════════════════════════════════════════════════

const delim = "{{"

var delimBytes = []byte(delim)

// findNext 返回 from 之后第一个 "{{" 的绝对偏移，未找到返回 -1。
//
// 按字节比较，不做任何区域化处理。
func findNext(buf []byte, from int) int {
	if from < 0 || from >= len(buf) {
		return -1
	}
	idx := bytes.Index(buf[from:], delimBytes)
	if idx < 0 {
		return -1
	}

	return from + idx
}

// ═══════════════════════════════════════════════════════════════════════════
// 占位符读取
// ═══════════════════════════════════════════════════════════════════════════

// Placeholder 描述一次读取得到的占位符。
//
// Start 与 End 均为闭区间偏移，仅对读取时的缓冲区内容有效。
type Placeholder struct {
	Name    string `json:"name"`
	Body    string `json:"body,omitempty"`
	HasBody bool   `json:"hasBody"` // 区分 {{name}} 与 {{name:}}
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type readerState uint8

const (
	stateName readerState = iota
	stateSplitter
	stateBody
	stateOpenBracket
	stateCloseBracket
)

// readPlaceholder 从 open 处的 "{{" 开始读取一个完整占位符。
//
// body 中的嵌套 "{{...}}" 原样保留，只用于计算花括号深度；
// 嵌套占位符由解析阶段对 body 再次执行完整流程来展开。
// name 中的 "{" 视为普通字符。
func readPlaceholder(buf []byte, open int) (Placeholder, error) {
	var name, body []byte

	depth := 1
	state := stateName
	prev := stateName // OpenBracket / CloseBracket 结束后返回的状态
	hasBody := false

	appendPair := func(a, b byte) {
		if prev == stateBody {
			body = append(body, a, b)
		} else {
			name = append(name, a, b)
		}
	}

	for i := open + len(delim); i < len(buf); i++ {
		ch := buf[i]

		switch state {
		case stateName:
			switch ch {
			case ':':
				state = stateSplitter
				hasBody = true
			case '}':
				state = stateCloseBracket
			default:
				name = append(name, ch)
			}
		case stateSplitter:
			state, prev = stateBody, stateBody
			switch ch {
			case '{':
				state = stateOpenBracket
			case '}':
				state = stateCloseBracket
			default:
				body = append(body, ch)
			}
		case stateBody:
			switch ch {
			case '{':
				state = stateOpenBracket
			case '}':
				state = stateCloseBracket
			default:
				body = append(body, ch)
			}
		case stateOpenBracket:
			if ch == '{' {
				depth++
			}
			state = prev
			appendPair('{', ch)
		case stateCloseBracket:
			if ch == '}' {
				depth--
				if depth == 0 {
					return Placeholder{
						Name:    string(name),
						Body:    string(body),
						HasBody: hasBody,
						Start:   open,
						End:     i,
					}, nil
				}
			}
			state = prev
			appendPair('}', ch)
		}
	}

	return Placeholder{}, &MalformedPlaceholderError{
		Offset: open,
		Text:   snippet(string(buf[open:])),
	}
}
