package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/yagro/gostore/internal/server"
	"github.com/yagro/gostore/internal/transport/http/router"
	"github.com/yagro/gostore/pkg/logger"
)

func main() {
	cmd := &cli.Command{
		Name:  "gostore",
		Usage: "A pluggable file store with an HTTP upload surface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file",
				Sources: cli.EnvVars("GOSTORE_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			srv, err := server.New(cmd.String("config"))
			if err != nil {
				return err
			}

			if err := logger.Init(&logger.Config{
				Level:      srv.Config.Logging.Level,
				Format:     srv.Config.Logging.Format,
				OutputPath: srv.Config.Logging.OutputPath,
			}); err != nil {
				return err
			}
			defer logger.Close()

			r := router.NewRouter(srv)
			r.RegisterRoutes()

			logger.Info("server starting",
				logger.String("address", srv.Config.Server.Address()),
				logger.Provider(srv.Config.Store.Provider),
				logger.String("url_prefix", srv.Config.Store.URLPrefix),
			)

			return srv.Run(srv.Config.Server.Address())
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
