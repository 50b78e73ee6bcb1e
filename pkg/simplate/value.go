package simplate

import "fmt"

// Value 是占位符名称对应的计算。
//
// 三种形态（常量、无参函数、以 body 为参数的函数）在构造时统一为
// compute(body) 的形式，零值 Value 计算结果为空字符串。
type Value struct {
	compute func(body string) (string, error)
}

// Const 返回忽略 body 的常量值。
func Const(s string) Value {
	return Value{compute: func(string) (string, error) { return s, nil }}
}

// Nullary 返回忽略 body 的函数值，每次计算都会重新调用 fn。
func Nullary(fn func() string) Value {
	return Value{compute: func(string) (string, error) { return fn(), nil }}
}

// Unary 返回以展开后的 body 为参数的函数值。
func Unary(fn func(body string) string) Value {
	return Value{compute: func(body string) (string, error) { return fn(body), nil }}
}

// UnaryErr 与 [Unary] 相同，但计算可以失败。
func UnaryErr(fn func(body string) (string, error)) Value {
	return Value{compute: fn}
}

// ValueOf 将支持的类型转换为 [Value]。
//
// 支持的类型：
//   - Value
//   - string
//   - func() string
//   - func(string) string
//   - func(string) (string, error)
func ValueOf(v any) (Value, error) {
	switch typed := v.(type) {
	case Value:
		return typed, nil
	case string:
		return Const(typed), nil
	case func() string:
		return Nullary(typed), nil
	case func(string) string:
		return Unary(typed), nil
	case func(string) (string, error):
		return UnaryErr(typed), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Compute 以 body 计算值。
func (v Value) Compute(body string) (string, error) {
	if v.compute == nil {
		return "", nil
	}

	return v.compute(body)
}
