package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lightningsoon/KeyMinder/internal/client"
	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := client.NewApp(*cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	err = app.Run(ctx, os.Args[1:])
	stop()

	if err != nil {
		os.Exit(1)
	}
}
