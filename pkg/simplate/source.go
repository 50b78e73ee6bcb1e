package simplate

import "fmt"

// Lookup 按名称查找值，是 [Process] 的值源参数。
//
// 值源列表按顺序查询，第一个返回 true 的值源生效。
type Lookup interface {
	Lookup(name string) (Value, bool)
}

// Namer 是可选接口，实现后用于生成 [UnknownTokenError] 的候选名称。
type Namer interface {
	Names() []string
}

// Source 是按名称注册值的有序表。
//
// 同一 Source 内名称唯一；Process 期间只读，不支持并发写入。
type Source struct {
	values map[string]Value
	order  []string
}

var (
	_ Lookup = (*Source)(nil)
	_ Namer  = (*Source)(nil)
)

// NewSource 创建空的值源。
func NewSource() *Source {
	return &Source{values: make(map[string]Value)}
}

// Add 注册名称与值，v 的类型见 [ValueOf]。
//
// 名称为空返回 [ErrEmptyName]，重复返回 [ErrDuplicateName]。
func (s *Source) Add(name string, v any) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := s.values[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	value, err := ValueOf(v)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[name] = value
	s.order = append(s.order, name)

	return nil
}

// MustAdd 调用 [Source.Add] 并在失败时 panic，返回 s 以便链式注册。
//
// 示例：
//
//	tokens := simplate.NewSource().
//	    MustAdd("x1", "Hello").
//	    MustAdd("em", func() string { return "!" })
func (s *Source) MustAdd(name string, v any) *Source {
	if err := s.Add(name, v); err != nil {
		panic(err.Error())
	}

	return s
}

// Contains 报告名称是否已注册。
func (s *Source) Contains(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Lookup 实现 [Lookup]。
func (s *Source) Lookup(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[name]

	return v, ok
}

// Names 按注册顺序返回全部名称。
func (s *Source) Names() []string {
	if s == nil {
		return nil
	}

	return append([]string(nil), s.order...)
}

// Len 返回已注册的名称数量。
func (s *Source) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}
