package simplate_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

func basicTokens() *simplate.Source {
	return simplate.NewSource().
		MustAdd("x1", "Hello").
		MustAdd("x2", "world").
		MustAdd("em", "!")
}

func TestProcess_BasicOperations(t *testing.T) {
	funcs := simplate.NewSource().
		MustAdd("upper", strings.ToUpper).
		MustAdd("em", func() string { return "?" })

	nested := simplate.NewSource().
		MustAdd("x1", "Hello {{x2}}").
		MustAdd("x2", "world{{em}}").
		MustAdd("em", "!")

	tests := []struct {
		name     string
		template string
		sources  []simplate.Lookup
		want     string
	}{
		{
			name:     "simple replace",
			template: "{{x1}} {{x2}}{{em}}",
			sources:  []simplate.Lookup{basicTokens()},
			want:     "Hello world!",
		},
		{
			name:     "indirect expansion",
			template: "{{x1}}",
			sources:  []simplate.Lookup{nested},
			want:     "Hello world!",
		},
		{
			name:     "function tokens with nested body",
			template: "{{upper:{{x1}} {{x2}}}}{{em}}",
			sources:  []simplate.Lookup{basicTokens(), funcs},
			want:     "HELLO WORLD!",
		},
		{
			name:     "later source used when earlier misses",
			template: "{{upper:abc}}",
			sources:  []simplate.Lookup{basicTokens(), funcs},
			want:     "ABC",
		},
		{
			name:     "literal braces around placeholders",
			template: "{a} {{x1}} }}",
			sources:  []simplate.Lookup{basicTokens()},
			want:     "{a} Hello }}",
		},
		{
			name:     "multibyte text",
			template: "héllo {{x1}} 世界",
			sources:  []simplate.Lookup{basicTokens()},
			want:     "héllo Hello 世界",
		},
		{
			name:     "nil source is skipped",
			template: "{{x2}}",
			sources:  []simplate.Lookup{nil, basicTokens()},
			want:     "world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := simplate.Process(tt.template, tt.sources...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcess_LiteralPassthrough(t *testing.T) {
	templates := []string{
		"",
		"plain text",
		"{ single } braces }}",
		"trailing {",
		"日本語",
	}

	for _, tmpl := range templates {
		got, err := simplate.Process(tmpl)
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)

		again, err := simplate.Process(got, basicTokens())
		require.NoError(t, err)
		assert.Equal(t, got, again, "processing literal text twice must not change it")
	}
}

func TestProcess_Precedence(t *testing.T) {
	a := simplate.NewSource().MustAdd("n", "from-a")
	b := simplate.NewSource().MustAdd("n", "from-b").MustAdd("only-b", "b")

	got, err := simplate.Process("{{n}}/{{only-b}}", a, b)
	require.NoError(t, err)
	assert.Equal(t, "from-a/b", got)

	got, err = simplate.Process("{{n}}", b, a)
	require.NoError(t, err)
	assert.Equal(t, "from-b", got)
}

func TestProcess_BodyResolvedBeforeCompute(t *testing.T) {
	var seen []string
	funcs := simplate.NewSource().
		MustAdd("echo", func(body string) string {
			seen = append(seen, body)
			return "[" + body + "]"
		})

	got, err := simplate.Process("{{echo:{{x1}}-{{echo:{{x2}}}}}}", basicTokens(), funcs)
	require.NoError(t, err)
	assert.Equal(t, "[Hello-[world]]", got)
	assert.Equal(t, []string{"world", "Hello-[world]"}, seen)
	for _, body := range seen {
		assert.NotContains(t, body, "{{")
	}
}

func TestProcess_EmptyBody(t *testing.T) {
	funcs := simplate.NewSource().
		MustAdd("echo", func(body string) string { return "[" + body + "]" })

	for _, tmpl := range []string{"{{echo}}", "{{echo:}}"} {
		got, err := simplate.Process(tmpl, funcs)
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	}
}

func TestProcess_NullaryComputedEachCall(t *testing.T) {
	n := 0
	funcs := simplate.NewSource().
		MustAdd("next", func() string {
			n++
			return strconv.Itoa(n)
		})

	got, err := simplate.Process("{{next}}-{{next}}-{{next:ignored}}", funcs)
	require.NoError(t, err)
	assert.Equal(t, "1-2-3", got)
}

func TestProcess_Errors(t *testing.T) {
	errBoom := errors.New("boom")
	funcs := simplate.NewSource().
		MustAdd("fail", func(string) (string, error) { return "", errBoom }).
		MustAdd("open", "{{")

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{name: "unknown token", template: "{{missing}}", wantErr: simplate.ErrUnknownToken},
		{name: "unknown token in body", template: "{{x1:{{missing}}}}", wantErr: simplate.ErrUnknownToken},
		{name: "unterminated", template: "{{name", wantErr: simplate.ErrMalformedPlaceholder},
		{name: "unterminated after text", template: "ok {{x1}} then {{x2", wantErr: simplate.ErrMalformedPlaceholder},
		{name: "value reintroduces open delimiter", template: "{{open}}", wantErr: simplate.ErrMalformedPlaceholder},
		{name: "compute error", template: "{{fail:x}}", wantErr: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := simplate.Process(tt.template, basicTokens(), funcs)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, got)
		})
	}
}

func TestProcess_UnknownTokenError(t *testing.T) {
	tokens := simplate.NewSource().
		MustAdd("greeting", "hi").
		MustAdd("name", "bob")

	_, err := simplate.Process("{{greting}}", tokens)

	var unknown *simplate.UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "greting", unknown.Name)
	assert.Contains(t, unknown.Suggestions, "greeting")
	assert.Contains(t, err.Error(), "did you mean")

	_, err = simplate.Process("{{missing}}")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Empty(t, unknown.Suggestions)
	assert.Equal(t, `simplate: token "missing" not found in data`, err.Error())
}

func TestEngine_Limits(t *testing.T) {
	loop := simplate.NewSource().MustAdd("x", "{{x}}")
	identity := simplate.NewSource().MustAdd("f", func(body string) string { return body })

	t.Run("expansions stop self reference", func(t *testing.T) {
		engine := simplate.New(simplate.WithMaxExpansions(10))
		_, err := engine.Process("{{x}}", loop)
		require.ErrorIs(t, err, simplate.ErrLimitExceeded)

		var limit *simplate.LimitError
		require.ErrorAs(t, err, &limit)
		assert.Equal(t, "expansions", limit.Kind)
		assert.Equal(t, 10, limit.Limit)
		assert.Equal(t, "x", limit.Name)
	})

	t.Run("expansions count nested bodies", func(t *testing.T) {
		engine := simplate.New(simplate.WithMaxExpansions(2))
		_, err := engine.Process("{{f:{{f:{{f:a}}}}}}", identity)
		require.ErrorIs(t, err, simplate.ErrLimitExceeded)

		engine = simplate.New(simplate.WithMaxExpansions(3))
		got, err := engine.Process("{{f:{{f:{{f:a}}}}}}", identity)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("depth", func(t *testing.T) {
		engine := simplate.New(simplate.WithMaxDepth(1))
		_, err := engine.Process("{{f:{{f:{{f:a}}}}}}", identity)

		var limit *simplate.LimitError
		require.ErrorAs(t, err, &limit)
		assert.Equal(t, "depth", limit.Kind)

		engine = simplate.New(simplate.WithMaxDepth(2))
		got, err := engine.Process("{{f:{{f:{{f:a}}}}}}", identity)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("limits reset per call", func(t *testing.T) {
		engine := simplate.New(simplate.WithMaxExpansions(1))
		for range 3 {
			got, err := engine.Process("{{f:a}}", identity)
			require.NoError(t, err)
			assert.Equal(t, "a", got)
		}
	})
}

func TestScan(t *testing.T) {
	got, err := simplate.Scan("a {{x}} b {{f:{{y}}}} c")
	require.NoError(t, err)
	assert.Equal(t, []simplate.Placeholder{
		{Name: "x", Start: 2, End: 6},
		{Name: "f", Body: "{{y}}", HasBody: true, Start: 10, End: 20},
	}, got)

	got, err = simplate.Scan("no placeholders")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = simplate.Scan("{{x}} {{y")
	require.ErrorIs(t, err, simplate.ErrMalformedPlaceholder)
}
