// Package names 提供列出模板占位符的命令。
package names

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
	"github.com/lwmacct/261018-go-pkg-simplate/pkg/simplate"
)

// Command 列出顶层占位符
var Command = &cli.Command{
	Name:      "names",
	Usage:     "列出模板中的顶层占位符，不做展开",
	ArgsUsage: "[template-file|-]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "直接指定模板内容，优先于文件参数",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		tmpl, err := command.ReadTemplate(cmd.Root().Reader, cmd.String("template"), cmd.Args().First())
		if err != nil {
			return err
		}

		return list(cmd.Root().Writer, tmpl)
	},
}

// list 每行输出一个占位符：name 或 name:body。
func list(w io.Writer, tmpl string) error {
	placeholders, err := simplate.Scan(tmpl)
	if err != nil {
		return err
	}

	for _, p := range placeholders {
		line := p.Name
		if p.HasBody {
			line += ":" + p.Body
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
