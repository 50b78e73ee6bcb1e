package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
	app "github.com/lwmacct/261018-go-pkg-simplate/internal/command/server"
)

func main() {
	server := &cli.Command{
		Name:    command.AppName + "-server",
		Usage:   app.Command.Usage,
		Version: command.Version,
		Flags:   append(command.LogFlags(), app.Command.Flags...),
		Before:  command.Before,
		Action:  app.Command.Action,
	}

	if err := server.Run(context.Background(), os.Args); err != nil {
		slog.Error("应用程序运行失败", "error", err)
		os.Exit(1)
	}
}
