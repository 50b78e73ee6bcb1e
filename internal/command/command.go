// Package command 提供 simplate 各子命令共享的配置、值源与日志设置。
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/config"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/cfgm"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/sources"
)

const (
	// AppName 应用名称，同时决定默认配置文件路径。
	AppName = "simplate"
	// EnvPrefix 配置项环境变量前缀。
	EnvPrefix = "SIMPLATE_"
)

// Version 构建时通过 -ldflags "-X" 注入。
var Version = "dev"

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// Load 按 默认值 → 配置文件 → 环境变量 → CLI flags 加载配置。
func Load(cmd *cli.Command) (*config.Config, error) {
	return cfgm.LoadCmd(cmd, config.DefaultConfig(), AppName, cfgm.WithEnvPrefix(EnvPrefix))
}

// RenderFlags 返回 render.* 配置对应的 flags，每次调用都创建新实例。
func RenderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "render-values",
			Aliases: []string{"f"},
			Usage:   "值文件 (YAML/JSON)，可重复，靠前的优先",
		},
		&cli.BoolFlag{
			Name:  "render-env",
			Value: Defaults.Render.Env,
			Usage: "以环境变量作为值源",
		},
		&cli.StringFlag{
			Name:  "render-env-prefix",
			Value: Defaults.Render.EnvPrefix,
			Usage: "环境变量前缀，匹配后去掉前缀作为名称",
		},
		&cli.BoolFlag{
			Name:  "render-builtins",
			Value: Defaults.Render.Builtins,
			Usage: "启用内置函数 (upper/lower/calc/uuid...)",
		},
		&cli.IntFlag{
			Name:  "render-max-depth",
			Value: Defaults.Render.MaxDepth,
			Usage: "body 递归展开深度上限，0 为不限制",
		},
		&cli.IntFlag{
			Name:  "render-max-expansions",
			Value: Defaults.Render.MaxExpansions,
			Usage: "单次展开替换次数上限，0 为不限制",
		},
	}
}

// BuildSources 按优先级构造值源列表。
//
// 顺序 (从高到低)：pairs → 值文件 → 环境变量 → 内置函数 → 保留名称。
func BuildSources(cfg config.RenderConfig, pairs []string) ([]simplate.Lookup, error) {
	var lookups []simplate.Lookup

	if len(pairs) > 0 {
		set, err := sources.FromPairs(pairs)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, set)
	}

	files, err := sources.FromFiles(cfg.Values...)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		lookups = append(lookups, file)
	}

	if cfg.Env {
		lookups = append(lookups, sources.FromEnv(cfg.EnvPrefix))
	}
	if cfg.Builtins {
		lookups = append(lookups, sources.Builtins())
	}
	lookups = append(lookups, sources.Reserved())

	slog.Debug("Built value sources", "count", len(lookups), "files", len(files), "env", cfg.Env, "builtins", cfg.Builtins)

	return lookups, nil
}

// NewEngine 根据配置创建展开引擎。
func NewEngine(cfg config.RenderConfig) *simplate.Engine {
	return simplate.New(
		simplate.WithMaxDepth(cfg.MaxDepth),
		simplate.WithMaxExpansions(cfg.MaxExpansions),
	)
}

// ReadTemplate 读取模板：inline 非空时直接使用，否则读取 path，path 为空或 "-" 时读取 stdin。
func ReadTemplate(stdin io.Reader, inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}

	var content []byte
	var err error
	if path == "" || path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path) //nolint:gosec // path is supplied by the user
	}
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	return string(content), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 日志
// ═══════════════════════════════════════════════════════════════════════════

// LogFlags 返回日志相关 flags。
func LogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "日志级别 (debug|info|warn|error)",
			Sources: cli.EnvVars(EnvPrefix + "LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "日志格式 (text|json)",
			Sources: cli.EnvVars(EnvPrefix + "LOG_FORMAT"),
		},
	}
}

// Before 根据日志 flags 设置默认 logger，日志写入 stderr。
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	return ctx, SetupLogger(os.Stderr, cmd.String("log-level"), cmd.String("log-format"))
}

// SetupLogger 创建并设置默认 slog logger。
func SetupLogger(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}
