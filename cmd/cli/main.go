package main

import (
	"context"
	"log"
	"os"

	"github.com/timfmjones/dreamjournal/internal/buildinfo"
	"github.com/timfmjones/dreamjournal/internal/client/cli"
	"github.com/timfmjones/dreamjournal/internal/client/config"
	"github.com/timfmjones/dreamjournal/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
