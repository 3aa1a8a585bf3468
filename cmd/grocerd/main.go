package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomatostore/grocer/config"
	"github.com/tomatostore/grocer/internal/app"
	"github.com/tomatostore/grocer/internal/storeapi"
	"github.com/tomatostore/grocer/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type serverOptions struct {
	ConfigFile string
	InitDB     bool
	DropAll    bool
}

func main() {
	opts := &serverOptions{}

	cmd := &cobra.Command{
		Use:           "grocerd",
		Short:         "Grocer store server",
		Long:          "grocerd serves the grocery store catalog and order API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "grocer.yml", "configuration file")
	cmd.Flags().BoolVar(&opts.InitDB, "initdb", false, "initialize database tables and exit")
	cmd.Flags().BoolVar(&opts.DropAll, "dropall", false, "drop all tables before initializing (with --initdb)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(opts *serverOptions) error {
	cfg := config.LoadConfig(opts.ConfigFile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if opts.InitDB {
		if opts.DropAll {
			application.DropAll()
		}
		application.InitDb()
		zap.L().Info("database initialized")
		return nil
	}

	webserver.Init(application)
	storeapi.InitRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		application.StartBackgroundJobs(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return webserver.Shutdown(context.Background())
	})

	zap.L().Info("grocerd started",
		zap.String("host", cfg.Web.Host),
		zap.Int("port", cfg.Web.Port))

	return g.Wait()
}
