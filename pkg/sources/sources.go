// Package sources 提供常用的 simplate 值源构造方式。
//
// 嵌套结构会被展平为点号分隔的名称：
//
//	server:
//	  addr: ":8080"      → {{server.addr}}
//	tags: [a, b]         → {{tags.0}} {{tags.1}}
package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

// ErrInvalidPair 表示 name=value 格式错误。
var ErrInvalidPair = errors.New("sources: invalid pair")

// FromMap 将 map 转为值源。
//
// 字符串与 [simplate.ValueOf] 支持的函数原样注册；嵌套 map 与切片按路径展平；
// 其他标量使用 fmt 格式化，nil 注册为空字符串。
func FromMap(data map[string]any) (*simplate.Source, error) {
	source := simplate.NewSource()
	if err := addFlattened(source, "", data); err != nil {
		return nil, err
	}

	return source, nil
}

// FromPairs 将 "name=value" 列表转为值源，value 可以为空。
func FromPairs(pairs []string) (*simplate.Source, error) {
	source := simplate.NewSource()
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPair, pair)
		}
		if err := source.Add(name, value); err != nil {
			return nil, err
		}
	}

	return source, nil
}

// FromEnv 生成当前环境变量快照。
//
// prefix 非空时只保留带前缀的变量，并去掉前缀作为名称。
func FromEnv(prefix string) *simplate.Source {
	source := simplate.NewSource()
	for _, env := range os.Environ() {
		key, val, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		// 快照中的重复键（Windows 上大小写不同的同名变量）以首个为准
		_ = source.Add(name, val)
	}

	return source
}

// FromFile 读取 YAML 或 JSON 文件（按扩展名判断）并展平为值源。
func FromFile(path string) (*simplate.Source, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return nil, err
	}

	data, err := parseBytes(path, content)
	if err != nil {
		return nil, fmt.Errorf("parse values file %s: %w", path, err)
	}

	return FromMap(data)
}

// FromFiles 依次读取多个文件，返回顺序与 paths 一致。
func FromFiles(paths ...string) ([]*simplate.Source, error) {
	out := make([]*simplate.Source, 0, len(paths))
	for _, path := range paths {
		source, err := FromFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, source)
	}

	return out, nil
}

func parseBytes(path string, content []byte) (map[string]any, error) {
	var raw any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &raw)
	} else {
		err = yamlv3.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}

	switch typed := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return typed, nil
	default:
		return nil, errors.New("values root must be object")
	}
}

func addFlattened(source *simplate.Source, prefix string, val any) error {
	switch typed := val.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := addFlattened(source, join(prefix, key), typed[key]); err != nil {
				return err
			}
		}

		return nil
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, value := range typed {
			converted[fmt.Sprintf("%v", key)] = value
		}

		return addFlattened(source, prefix, converted)
	case []any:
		for i, value := range typed {
			if err := addFlattened(source, join(prefix, strconv.Itoa(i)), value); err != nil {
				return err
			}
		}

		return nil
	case []string:
		for i, value := range typed {
			if err := source.Add(join(prefix, strconv.Itoa(i)), value); err != nil {
				return err
			}
		}

		return nil
	case nil:
		return source.Add(prefix, "")
	case string, simplate.Value, func() string, func(string) string, func(string) (string, error):
		return source.Add(prefix, typed)
	default:
		return source.Add(prefix, fmt.Sprint(typed))
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
