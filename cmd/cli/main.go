package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"archwiki-offline/internal/batch"
	"archwiki-offline/internal/config"
	"archwiki-offline/internal/ioformats"
	"archwiki-offline/internal/models"
	"archwiki-offline/internal/optimizer"
	"archwiki-offline/internal/wiki"
	"archwiki-offline/pkg/logger"
)

func main() {
	in := flag.StringP("input", "i", "", "downloaded page or directory of pages")
	out := flag.StringP("output", "o", "", "output root directory")
	cfgPath := flag.StringP("config", "c", "", "YAML config file")
	redirects := flag.String("redirects", "", "redirect map (csv, ndjson or json); overrides config")
	concurrency := flag.Int("concurrency", 0, "worker concurrency; overrides config")
	report := flag.String("report", "", "NDJSON report file (default stdout)")
	verbose := flag.BoolP("verbose", "v", false, "debug logging")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "missing --input or --output")
		flag.Usage()
		os.Exit(2)
	}
	l := logger.New(*verbose)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		l.Errorf("%v", err)
		os.Exit(2)
	}
	if *redirects != "" {
		cfg.Redirects = *redirects
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	var table []models.Redirect
	if cfg.Redirects != "" {
		table, err = ioformats.ReadRedirects(cfg.Redirects)
		if err != nil {
			l.Errorf("read redirects: %v", err)
			os.Exit(1)
		}
	}
	resolver := wiki.NewRedirectMap(table)
	l.Debugf("loaded %d redirects", resolver.Len())

	root, err := filepath.Abs(*out)
	if err != nil {
		l.Errorf("output root: %v", err)
		os.Exit(2)
	}

	jobs, err := batch.Discover(*in, root)
	if err != nil {
		l.Errorf("discover pages: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := optimizer.New(resolver, wiki.NewFileMapper(cfg.PageExtension), root, cfg.Options())
	results := batch.New(opt, l, cfg.Concurrency).Run(ctx, jobs)

	w := os.Stdout
	if *report != "" {
		f, err := os.Create(*report)
		if err != nil {
			l.Errorf("create report: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		l.Errorf("write report: %v", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	l.Infof("optimized %d of %d pages", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}
