package main

import (
	"context"

	"github.com/passvault-io/passvault/internal/client/cli"
	"github.com/passvault-io/passvault/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
