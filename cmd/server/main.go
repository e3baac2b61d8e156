package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"archwiki-offline/internal/config"
	"archwiki-offline/internal/ioformats"
	"archwiki-offline/internal/models"
	"archwiki-offline/internal/optimizer"
	"archwiki-offline/internal/server"
	"archwiki-offline/internal/wiki"
	"archwiki-offline/pkg/logger"
)

func main() {
	cfgPath := flag.StringP("config", "c", "", "YAML config file")
	addr := flag.String("addr", "", "listen address; overrides config")
	verbose := flag.BoolP("verbose", "v", false, "debug logging")
	flag.Parse()

	l := logger.New(*verbose)
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		l.Errorf("%v", err)
		os.Exit(2)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	var table []models.Redirect
	if cfg.Redirects != "" {
		if table, err = ioformats.ReadRedirects(cfg.Redirects); err != nil {
			l.Errorf("read redirects: %v", err)
			os.Exit(1)
		}
	}
	resolver := wiki.NewRedirectMap(table)
	opt := optimizer.New(resolver, wiki.NewFileMapper(cfg.PageExtension), cfg.Server.Output, cfg.Options())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(opt, l),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Infof("loaded %d redirects", resolver.Len())
	if err := server.Run(ctx, srv, l); err != nil {
		l.Errorf("server error: %v", err)
		stop()
		os.Exit(1)
	}
	l.Infof("bye")
}
