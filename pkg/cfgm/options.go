package cfgm

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

// options 配置加载选项。
type options struct {
	appName             string // 应用名称，用于生成默认配置路径
	cmd                 *cli.Command
	configPaths         []string
	envPrefix           string
	noTemplateExpansion bool              // 是否禁用配置文件模板展开（默认启用）
	templateSources     []simplate.Lookup // 优先于环境变量的模板值源
}

// Option 配置加载选项函数。
type Option func(*options)

// WithCommand 绑定 CLI 命令，读取显式设置的 flags 以覆盖配置（最高优先级）。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithAppName 设置应用名称，用于生成默认搜索路径（见 [DefaultPaths]）。
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithConfigPaths 设置配置文件搜索路径。
//
// 按顺序查找，命中首个文件即停止；相对路径基于当前工作目录。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithEnvPrefix 启用环境变量前缀解析。
//
// 环境变量命名规则：
//   - 前缀 + 大写的配置 key
//   - 点号 (.) 和连字符 (-) 转为下划线 (_)
//
// 示例 (前缀为 "SIMPLATE_")：
//   - SIMPLATE_SERVER_ADDR → server.addr
//   - SIMPLATE_RENDER_MAX_DEPTH → render.max-depth
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutTemplateExpansion 禁用配置文件的模板展开，保留原始 {{...}} 字符串。
func WithoutTemplateExpansion() Option {
	return func(o *options) {
		o.noTemplateExpansion = true
	}
}

// WithTemplateSources 追加模板展开时的值源，优先于环境变量与内置函数。
func WithTemplateSources(sources ...simplate.Lookup) Option {
	return func(o *options) {
		o.templateSources = append(o.templateSources, sources...)
	}
}
