// Package cfgm 提供通用的配置加载功能。
//
// 支持 YAML/JSON，按默认值、配置文件、环境变量与 CLI flags 逐层覆盖。
// 配置 key 使用 json tag 统一描述，YAML 与 JSON 共享同一套 key。
//
// # 加载优先级 (从低到高)
//
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 [WithConfigPaths] 或 [WithAppName] 设置
//  3. 环境变量(前缀) - 通过 [WithEnvPrefix] 自动生成绑定
//  4. CLI flags - 通过 [WithCommand] 选项设置，最高优先级
//
// # 快速开始
//
//	cfg, err := cfgm.LoadCmd(cmd, DefaultConfig(), "simplate",
//	    cfgm.WithEnvPrefix("SIMPLATE_"),
//	)
//
// # 模板展开
//
// 配置文件在解析前使用 simplate 展开，可引用环境变量与内置函数：
//
//	# config.yaml
//	server:
//	  addr: "{{HOST}}:{{PORT}}"
//	render:
//	  values: ["{{HOME}}/values.yaml"]
//
// 未定义的名称会使加载失败。使用 [WithoutTemplateExpansion] 可禁用该行为。
//
// # CLI Flag 映射
//
// 仅替换 "." 为 "-"：
//   - server.addr → --server-addr
//   - render.max-depth → --render-max-depth
package cfgm
