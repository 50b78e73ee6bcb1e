package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

// Builtins 返回内置函数值源。
//
// 字符串函数（参数为展开后的 body）：
//   - upper / lower / title / trim
//   - snake / camel / kebab - 命名风格转换
//   - calc - 以 expr 表达式求值 body，如 {{calc:1 + 2}}
//
// 无参函数（每次计算重新生成）：
//   - uuid - 随机 UUID
//   - now - 当前 UTC 时间 (RFC 3339)
func Builtins() *simplate.Source {
	return simplate.NewSource().
		MustAdd("upper", strings.ToUpper).
		MustAdd("lower", strings.ToLower).
		MustAdd("title", title).
		MustAdd("trim", strings.TrimSpace).
		MustAdd("snake", strcase.ToSnake).
		MustAdd("camel", strcase.ToLowerCamel).
		MustAdd("kebab", strcase.ToKebab).
		MustAdd("calc", calc).
		MustAdd("uuid", uuid.NewString).
		MustAdd("now", func() string { return time.Now().UTC().Format(time.RFC3339) })
}

// title 每次新建 Caser，Caser 有状态，不能跨 goroutine 共享。
func title(body string) string {
	return cases.Title(language.Und).String(body)
}

func calc(body string) (string, error) {
	out, err := expr.Eval(body, nil)
	if err != nil {
		return "", fmt.Errorf("calc: %w", err)
	}

	return fmt.Sprint(out), nil
}

// Reserved 返回保留的 if / eval / foreach 名称。
//
// 三者只是原样返回 body 的声明，不实现任何控制结构；
// 放在值源列表末尾可以避免模板中的同名占位符报 [simplate.ErrUnknownToken]。
func Reserved() *simplate.Source {
	identity := func(body string) string { return body }

	return simplate.NewSource().
		MustAdd("if", identity).
		MustAdd("eval", identity).
		MustAdd("foreach", identity)
}
