package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261018-go-pkg-simplate/internal/command"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/command/client"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/command/names"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/command/render"
	"github.com/lwmacct/261018-go-pkg-simplate/internal/command/server"
)

func main() {
	app := &cli.Command{
		Name:    command.AppName,
		Usage:   "{{...}} 占位符模板展开工具",
		Version: command.Version,
		Flags:   command.LogFlags(),
		Before:  command.Before,
		Commands: []*cli.Command{
			render.Command,
			names.Command,
			server.Command,
			client.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
