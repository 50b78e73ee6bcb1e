package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/config"
)

func action(_ context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	tmpl, err := command.ReadTemplate(cmd.Root().Reader, cmd.String("template"), cmd.Args().First())
	if err != nil {
		return err
	}

	out, err := render(cfg.Render, cmd.StringSlice("set"), tmpl)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil { //nolint:gosec // rendered output is not secret
			return fmt.Errorf("write output: %w", err)
		}
		slog.Info("Rendered template", "output", path, "bytes", len(out))

		return nil
	}

	_, err = fmt.Fprint(cmd.Root().Writer, out)

	return err
}

func render(cfg config.RenderConfig, pairs []string, tmpl string) (string, error) {
	lookups, err := command.BuildSources(cfg, pairs)
	if err != nil {
		return "", err
	}

	return command.NewEngine(cfg).Process(tmpl, lookups...)
}
