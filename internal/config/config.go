// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - .simplate.yaml / ~/.simplate.yaml / /etc/simplate/config.yaml / config.yaml
//  3. 环境变量 - SIMPLATE_ 前缀
//  4. CLI flags
package config

import (
	"time"
)

// Config 应用配置。
type Config struct {
	Render RenderConfig `json:"render" desc:"模板展开配置"`
	Server ServerConfig `json:"server" desc:"服务端配置"`
	Client ClientConfig `json:"client" desc:"客户端配置"`
}

// RenderConfig 模板展开配置，同时作用于 render 命令与服务端。
type RenderConfig struct {
	Values        []string `json:"values" desc:"值文件 (YAML/JSON)，靠前的优先"`
	Env           bool     `json:"env" desc:"以环境变量作为值源"`
	EnvPrefix     string   `json:"env-prefix" desc:"环境变量前缀，匹配后去掉前缀作为名称"`
	Builtins      bool     `json:"builtins" desc:"启用内置函数 (upper/lower/calc/uuid...)"`
	MaxDepth      int      `json:"max-depth" desc:"body 递归展开深度上限，0 为不限制"`
	MaxExpansions int      `json:"max-expansions" desc:"单次展开替换次数上限，0 为不限制"`
}

// ServerConfig 服务端配置。
type ServerConfig struct {
	Addr     string        `json:"addr" desc:"服务器监听地址"`
	Timeout  time.Duration `json:"timeout" desc:"HTTP 读写超时"`
	Idletime time.Duration `json:"idletime" desc:"HTTP 空闲超时"`
	MaxBody  int64         `json:"max-body" desc:"请求体大小上限 (字节)"`
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	URL     string        `json:"url" desc:"服务器地址"`
	Timeout time.Duration `json:"timeout" desc:"请求超时时间"`
	Retries int           `json:"retries" desc:"重试次数"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Builtins:      true,
			MaxDepth:      64,
			MaxExpansions: 10000,
		},
		Server: ServerConfig{
			Addr:     ":40117",
			Timeout:  15 * time.Second,
			Idletime: 60 * time.Second,
			MaxBody:  1 << 20,
		},
		Client: ClientConfig{
			URL:     "http://localhost:40117",
			Timeout: 30 * time.Second,
			Retries: 3,
		},
	}
}
