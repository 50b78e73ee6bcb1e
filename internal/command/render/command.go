// Package render 提供模板展开命令。
package render

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
)

// Command 展开命令
var Command = NewCommand()

// NewCommand 创建新的展开命令实例，flag 状态互不共享。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "展开模板中的 {{...}} 占位符",
		ArgsUsage: "[template-file|-]",
		Action:    action,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "直接指定模板内容，优先于文件参数",
			},
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "name=value 值，可重复，优先于所有其他值源",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "输出文件，默认写入 stdout",
			},
		}, command.RenderFlags()...),
	}
}
