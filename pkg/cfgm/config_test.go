package cfgm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/cfgm"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

type testConfig struct {
	Name   string     `json:"name"`
	Server testServer `json:"server"`
	Render testRender `json:"render"`
	Skip   string     `json:"-"`
}

type testServer struct {
	Addr    string        `json:"addr"`
	Timeout time.Duration `json:"timeout"`
}

type testRender struct {
	Values   []string `json:"values"`
	Builtins bool     `json:"builtins"`
	MaxDepth int      `json:"max-depth"`
}

func defaultTestConfig() testConfig {
	return testConfig{
		Name:   "default",
		Server: testServer{Addr: ":40117", Timeout: 15 * time.Second},
		Render: testRender{Builtins: true},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(filepath.Join(t.TempDir(), "none.yaml")))
	require.NoError(t, err)
	assert.Equal(t, defaultTestConfig(), *cfg)
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  timeout: 3s
render:
  values: [a.yaml, b.yaml]
  max-depth: 4
`)

	cfg, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths("missing.yaml", path))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, ":40117", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Render.Values)
	assert.Equal(t, 4, cfg.Render.MaxDepth)
	assert.True(t, cfg.Render.Builtins)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"name": "json", "render": {"builtins": false}}`)

	cfg, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(path))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Name)
	assert.False(t, cfg.Render.Builtins)
}

func TestLoad_FirstFileWins(t *testing.T) {
	first := writeFile(t, "first.yaml", "name: first")
	second := writeFile(t, "second.yaml", "name: second")

	cfg, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(first, second))
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Name)
}

func TestLoad_TemplateExpansion(t *testing.T) {
	t.Setenv("CFGM_TEST_HOST", "example.com")
	path := writeFile(t, "config.yaml", `
name: "{{app}}"
server:
  addr: "{{CFGM_TEST_HOST}}:{{calc:40000 + 117}}"
`)

	cfg, err := cfgm.Load(defaultTestConfig(),
		cfgm.WithConfigPaths(path),
		cfgm.WithTemplateSources(simplate.NewSource().MustAdd("app", "templated")),
	)
	require.NoError(t, err)
	assert.Equal(t, "templated", cfg.Name)
	assert.Equal(t, "example.com:40117", cfg.Server.Addr)
}

func TestLoad_TemplateErrors(t *testing.T) {
	path := writeFile(t, "config.yaml", `name: "{{CFGM_TEST_SURELY_UNSET}}"`)

	_, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(path))
	require.ErrorIs(t, err, simplate.ErrUnknownToken)
	assert.Contains(t, err.Error(), "expand template in")

	cfg, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(path), cfgm.WithoutTemplateExpansion())
	require.NoError(t, err)
	assert.Equal(t, "{{CFGM_TEST_SURELY_UNSET}}", cfg.Name)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "config.yaml", "- a\n- b\n")

	_, err := cfgm.Load(defaultTestConfig(), cfgm.WithConfigPaths(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config root must be object")
}

func TestLoad_EnvPrefix(t *testing.T) {
	t.Setenv("CFGMTEST_NAME", "from-env")
	t.Setenv("CFGMTEST_SERVER_TIMEOUT", "1m")
	t.Setenv("CFGMTEST_RENDER_MAX_DEPTH", "9")
	t.Setenv("CFGMTEST_RENDER_VALUES", "x.yaml,y.yaml")

	path := writeFile(t, "config.yaml", "name: from-file")

	cfg, err := cfgm.Load(defaultTestConfig(),
		cfgm.WithConfigPaths(path),
		cfgm.WithEnvPrefix("CFGMTEST_"),
	)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, time.Minute, cfg.Server.Timeout)
	assert.Equal(t, 9, cfg.Render.MaxDepth)
	assert.Equal(t, []string{"x.yaml", "y.yaml"}, cfg.Render.Values)
}

func TestLoadCmd_FlagsOverride(t *testing.T) {
	t.Setenv("CFGMTEST_NAME", "from-env")
	path := writeFile(t, "config.yaml", "server:\n  addr: ':1'\n")

	var got *testConfig
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "server-addr"},
			&cli.DurationFlag{Name: "server-timeout"},
			&cli.StringSliceFlag{Name: "render-values"},
			&cli.BoolFlag{Name: "render-builtins"},
			&cli.IntFlag{Name: "render-max-depth"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := cfgm.LoadCmd(cmd, defaultTestConfig(), "",
				cfgm.WithConfigPaths(path),
				cfgm.WithEnvPrefix("CFGMTEST_"),
			)
			got = cfg

			return err
		},
	}

	err := cmd.Run(context.Background(), []string{
		"test",
		"--name", "from-flag",
		"--render-values", "v1.yaml",
		"--render-values", "v2.yaml",
		"--render-builtins=false",
		"--render-max-depth", "7",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "from-flag", got.Name)
	assert.Equal(t, ":1", got.Server.Addr, "unset flags keep file values")
	assert.Equal(t, 15*time.Second, got.Server.Timeout, "unset flags keep defaults")
	assert.Equal(t, []string{"v1.yaml", "v2.yaml"}, got.Render.Values)
	assert.False(t, got.Render.Builtins)
	assert.Equal(t, 7, got.Render.MaxDepth)
}

func TestMustLoad_Panics(t *testing.T) {
	path := writeFile(t, "config.yaml", "name: [unclosed")

	assert.Panics(t, func() {
		cfgm.MustLoad(defaultTestConfig(), cfgm.WithConfigPaths(path))
	})
}
