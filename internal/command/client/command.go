// Package client 提供访问模板展开服务的客户端命令。
package client

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
)

// Command 客户端命令
var Command = &cli.Command{
	Name:  "client",
	Usage: "模板展开服务客户端",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "client-url",
			Aliases: []string{"u"},
			Value:   command.Defaults.Client.URL,
			Usage:   "服务器地址",
		},
		&cli.DurationFlag{
			Name:  "client-timeout",
			Value: command.Defaults.Client.Timeout,
			Usage: "请求超时时间",
		},
		&cli.IntFlag{
			Name:  "client-retries",
			Value: command.Defaults.Client.Retries,
			Usage: "重试次数",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "health",
			Usage:  "检查服务器健康状态",
			Action: healthAction,
		},
		{
			Name:      "render",
			Usage:     "发送模板到服务器展开",
			ArgsUsage: "[template-file|-]",
			Action:    renderAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "template",
					Aliases: []string{"t"},
					Usage:   "直接指定模板内容，优先于文件参数",
				},
				&cli.StringSliceFlag{
					Name:    "set",
					Aliases: []string{"s"},
					Usage:   "name=value 值，优先于服务端值源",
				},
			},
		},
	},
}
