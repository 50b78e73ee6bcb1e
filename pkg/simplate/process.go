package simplate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ═══════════════════════════════════════════════════════════════════════════
// 可变模板缓冲区
// ═══════════════════════════════════════════════════════════════════════════

// sourceBuffer 持有模板的可变副本。
//
// 所有偏移只对当前内容有效，任何位于其之前的替换都会使其失效。
type sourceBuffer struct {
	buf []byte
}

func newSourceBuffer(template string) *sourceBuffer {
	return &sourceBuffer{buf: []byte(template)}
}

// slice 返回 [from, to) 的内容。
func (b *sourceBuffer) slice(from, to int) []byte {
	return b.buf[from:to]
}

// tail 返回 from 之后的全部内容。
func (b *sourceBuffer) tail(from int) []byte {
	return b.buf[from:]
}

// replace 用 value 替换闭区间 [from, to]。
func (b *sourceBuffer) replace(from, to int, value string) {
	b.buf = slices.Replace(b.buf, from, to+1, []byte(value)...)
}

func (b *sourceBuffer) findNext(from int) int {
	return findNext(b.buf, from)
}

// ═══════════════════════════════════════════════════════════════════════════
// 引擎
// ═══════════════════════════════════════════════════════════════════════════

// Engine 执行模板展开，零值可直接使用。
//
// Engine 本身无状态，可并发调用 [Engine.Process]。
type Engine struct {
	maxDepth      int
	maxExpansions int
	logger        *slog.Logger
}

// Option 引擎选项函数。
type Option func(*Engine)

// WithMaxDepth 限制 body 的递归展开深度，0 表示不限制。
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithMaxExpansions 限制单次 [Engine.Process] 调用中的替换次数（包含 body 内的替换），0 表示不限制。
//
// 自引用的值（如 x → "{{x}}"）会在原位无限重扫，只有该选项能使其终止。
func WithMaxExpansions(n int) Option {
	return func(e *Engine) {
		e.maxExpansions = n
	}
}

// WithLogger 设置调试日志输出，默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New 创建引擎。
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

var defaultEngine = New()

// Process 使用默认引擎展开模板，见 [Engine.Process]。
func Process(template string, sources ...Lookup) (string, error) {
	return defaultEngine.Process(template, sources...)
}

// Process 展开 template 中的全部占位符。
//
// sources 按顺序查询，先包含名称的值源生效。
// 每次替换后从替换起点重新扫描，值中引入的占位符同样会被展开。
//
// 错误：
//   - [ErrMalformedPlaceholder] - 占位符未闭合
//   - [ErrUnknownToken] - 所有值源都不包含名称（[UnknownTokenError]）
//   - [ErrLimitExceeded] - 超过 [WithMaxDepth] / [WithMaxExpansions] 设置的上限
//   - 值计算返回的错误
func (e *Engine) Process(template string, sources ...Lookup) (string, error) {
	r := &run{Engine: e, sources: sources}
	return r.process(template, 0)
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}

	return slog.Default()
}

// run 保存一次 Process 调用的状态，递归展开共享同一个 run。
type run struct {
	*Engine
	sources    []Lookup
	expansions int
}

func (r *run) process(template string, depth int) (string, error) {
	if !strings.Contains(template, delim) {
		return template, nil
	}

	src := newSourceBuffer(template)
	var out strings.Builder
	out.Grow(len(template))

	cursor := 0
	open := src.findNext(cursor)
	for open >= 0 {
		out.Write(src.slice(cursor, open))

		p, err := readPlaceholder(src.buf, open)
		if err != nil {
			return "", err
		}

		value, err := r.resolve(p, depth)
		if err != nil {
			return "", err
		}

		src.replace(p.Start, p.End, value)

		// 从替换起点重扫，而不是跳过替换内容
		cursor = p.Start
		open = src.findNext(cursor)
	}
	out.Write(src.tail(cursor))

	return out.String(), nil
}

// resolve 在值源中查找占位符名称，展开 body 后计算值。
func (r *run) resolve(p Placeholder, depth int) (string, error) {
	for i, source := range r.sources {
		if source == nil {
			continue
		}
		value, ok := source.Lookup(p.Name)
		if !ok {
			continue
		}

		if r.maxExpansions > 0 && r.expansions >= r.maxExpansions {
			return "", &LimitError{Kind: "expansions", Limit: r.maxExpansions, Name: p.Name}
		}
		r.expansions++

		if r.maxDepth > 0 && depth >= r.maxDepth && strings.Contains(p.Body, delim) {
			return "", &LimitError{Kind: "depth", Limit: r.maxDepth, Name: p.Name}
		}

		body, err := r.process(p.Body, depth+1)
		if err != nil {
			return "", err
		}

		result, err := value.Compute(body)
		if err != nil {
			return "", fmt.Errorf("simplate: compute %q: %w", p.Name, err)
		}

		r.log().Debug("Resolved placeholder", "name", p.Name, "source", i, "depth", depth)

		return result, nil
	}

	return "", &UnknownTokenError{Name: p.Name, Suggestions: r.suggest(p.Name)}
}

const maxSuggestions = 3

// suggest 返回与 name 相近的已注册名称。
func (r *run) suggest(name string) []string {
	if name == "" {
		return nil
	}

	var candidates []string
	seen := make(map[string]struct{})
	for _, source := range r.sources {
		namer, ok := source.(Namer)
		if !ok {
			continue
		}
		for _, n := range namer.Names() {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			candidates = append(candidates, n)
		}
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		out = append(out, m.Str)
	}

	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// 只读扫描
// ═══════════════════════════════════════════════════════════════════════════

// Scan 返回 template 中的顶层占位符，不做任何解析或替换。
//
// 偏移基于原始 template；body 中的嵌套占位符不会单独列出。
func Scan(template string) ([]Placeholder, error) {
	buf := []byte(template)

	var out []Placeholder
	for open := findNext(buf, 0); open >= 0; {
		p, err := readPlaceholder(buf, open)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		open = findNext(buf, p.End+1)
	}

	return out, nil
}
