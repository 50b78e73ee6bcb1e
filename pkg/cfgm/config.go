package cfgm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/sources"
)

// DefaultPaths 返回默认配置文件的搜索顺序。
//
// appName 可选，提供后会追加应用专属路径。
// 返回顺序即查找顺序，先命中的文件生效。
//
// 优先级 (从高到低)：
//  1. ./.appname.yaml - 当前目录应用配置
//  2. ~/.appname.yaml - 用户主目录配置
//  3. /etc/appname/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths(appName ...string) []string {
	var paths []string

	if len(appName) > 0 && appName[0] != "" {
		name := appName[0]
		paths = append(paths, "."+name+".yaml")
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "."+name+".yaml"))
		}
		paths = append(paths, "/etc/"+name+"/config.yaml")
	}

	paths = append(paths, "config.yaml", "config/config.yaml")

	return paths
}

// Load 读取配置并按优先级合并。
//
// 优先级 (从低到高)：
//  1. 默认值 - defaultConfig
//  2. 配置文件 - [WithConfigPaths] / [WithAppName]
//  3. 环境变量(前缀) - [WithEnvPrefix]
//  4. CLI flags - [WithCommand]
//
// 配置文件在解析前按 simplate 语法展开，值源依次为 [WithTemplateSources]、
// 环境变量、内置函数，例如 addr: "{{HOST}}:{{PORT}}"。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.configPaths) == 0 {
		o.configPaths = DefaultPaths(o.appName)
	}

	configMap := structToMap(defaultConfig)

	// 配置文件：按顺序搜索，找到第一个即停止
	loaded := false
	for _, path := range o.configPaths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue
		}

		if !o.noTemplateExpansion {
			expanded, expandErr := expandTemplate(string(content), o.templateSources)
			if expandErr != nil {
				return nil, fmt.Errorf("expand template in %s: %w", path, expandErr)
			}
			content = []byte(expanded)
		}

		fileMap, err := parseConfigBytes(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		mergeMaps(configMap, fileMap)

		slog.Debug("Loaded config from file", "path", path, "templateExpansion", !o.noTemplateExpansion)
		loaded = true

		break
	}
	if !loaded {
		slog.Debug("No config file found, using defaults")
	}

	// 环境变量：基于配置结构体的 key 自动生成绑定
	if o.envPrefix != "" {
		bindings := generateEnvBindings(o.envPrefix, collectConfigKeys(defaultConfig))
		for envKey, configPath := range bindings {
			if val := os.Getenv(envKey); val != "" {
				setByPath(configMap, configPath, val)
				slog.Debug("Loaded env binding", "env", envKey, "path", configPath)
			}
		}
	}

	// CLI flags：仅当用户明确指定时覆盖
	if o.cmd != nil {
		applyCLIFlags(o.cmd, configMap, reflect.TypeOf(defaultConfig), "")
	}

	var cfg T
	if err := decodeConfigMap(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadCmd 是 [Load] 的便捷版本，注入 [WithCommand]，appName 非空时额外注入 [WithAppName]。
func LoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) (*T, error) {
	return Load(defaultConfig, append(cmdOptions(cmd, appName), opts...)...)
}

// MustLoad 调用 [Load] 并在失败时 panic，适合启动阶段。
func MustLoad[T any](defaultConfig T, opts ...Option) *T {
	cfg, err := Load(defaultConfig, opts...)
	if err != nil {
		panic(fmt.Sprintf("cfgm: failed to load config: %v", err))
	}

	return cfg
}

// MustLoadCmd 调用 [LoadCmd] 并在失败时 panic。
func MustLoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) *T {
	return MustLoad(defaultConfig, append(cmdOptions(cmd, appName), opts...)...)
}

func cmdOptions(cmd *cli.Command, appName string) []Option {
	base := []Option{WithCommand(cmd)}
	if appName != "" {
		base = append(base, WithAppName(appName))
	}

	return base
}

func expandTemplate(content string, extra []simplate.Lookup) (string, error) {
	lookups := append([]simplate.Lookup{}, extra...)
	lookups = append(lookups, sources.FromEnv(""), sources.Builtins())

	return simplate.Process(content, lookups...)
}

// collectConfigKeys 递归收集配置结构体的叶子 key（如 render.max-depth）。
func collectConfigKeys[T any](defaultConfig T) []string {
	var keys []string
	walkConfigFields(reflect.TypeOf(defaultConfig), "", func(key string, _ reflect.Type) {
		keys = append(keys, key)
	})

	return keys
}

// walkConfigFields 以 json tag 为 key 遍历叶子字段。
func walkConfigFields(typ reflect.Type, prefix string, visit func(key string, typ reflect.Type)) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := configTagName(field)
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if isStructType(field.Type) {
			walkConfigFields(field.Type, key, visit)

			continue
		}
		visit(key, field.Type)
	}
}

// generateEnvBindings 根据配置 key 生成环境变量映射。
//
// 示例 (前缀 "APP_")：
//   - render.max-depth → APP_RENDER_MAX_DEPTH
//   - server.addr → APP_SERVER_ADDR
func generateEnvBindings(prefix string, keys []string) map[string]string {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	bindings := make(map[string]string, len(keys))
	for _, key := range keys {
		bindings[prefix+strings.ToUpper(replacer.Replace(key))] = key
	}

	return bindings
}

// applyCLIFlags 将用户显式设置的 CLI flags 写入配置 map。
//
// flag 名称由 key 中的 "." 替换为 "-" 得到：render.max-depth → --render-max-depth。
func applyCLIFlags(cmd *cli.Command, config map[string]any, typ reflect.Type, prefix string) {
	walkConfigFields(typ, prefix, func(key string, fieldType reflect.Type) {
		flag := strings.ReplaceAll(key, ".", "-")
		if !cmd.IsSet(flag) {
			return
		}
		setCLIFlagValue(cmd, config, key, flag, fieldType)
	})
}

// setCLIFlagValue 按字段类型读取 CLI 值并写入配置 map。
func setCLIFlagValue(cmd *cli.Command, config map[string]any, key, flag string, fieldType reflect.Type) {
	if fieldType == reflect.TypeFor[time.Duration]() {
		setByPath(config, key, cmd.Duration(flag))

		return
	}

	switch fieldType.Kind() {
	case reflect.String:
		setByPath(config, key, cmd.String(flag))
	case reflect.Bool:
		setByPath(config, key, cmd.Bool(flag))
	case reflect.Int:
		setByPath(config, key, cmd.Int(flag))
	case reflect.Int64:
		setByPath(config, key, cmd.Int64(flag))
	case reflect.Float64:
		setByPath(config, key, cmd.Float64(flag))
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			setByPath(config, key, cmd.StringSlice(flag))
		}
	default:
		// 不支持的类型，忽略
	}
}
