package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"archwiki-offline/internal/models"
	"archwiki-offline/internal/optimizer"
	"archwiki-offline/pkg/logger"
)

// Job pairs a downloaded page with the file it is optimized into.
type Job struct {
	Input  string
	Output string
}

// Discover lists the pages under input, a single file or a directory, keeping
// their relative layout below root. Anything already below root is skipped.
func Discover(input, root string) ([]Job, error) {
	absIn, err := filepath.Abs(input)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absIn)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []Job{{Input: absIn, Output: filepath.Join(absRoot, filepath.Base(absIn))}}, nil
	}

	var jobs []Job
	err = filepath.WalkDir(absIn, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == absRoot && path != absIn {
				return filepath.SkipDir
			}
			return nil
		}
		if !isPage(path) {
			return nil
		}
		rel, err := filepath.Rel(absIn, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Input: path, Output: filepath.Join(absRoot, rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", input, err)
	}
	return jobs, nil
}

func isPage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

type Runner struct {
	opt         *optimizer.Optimizer
	log         *logger.Logger
	concurrency int
}

func New(opt *optimizer.Optimizer, log *logger.Logger, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{opt: opt, log: log, concurrency: concurrency}
}

// Run optimizes every job with bounded concurrency. Results keep the order
// of jobs. Jobs not started before ctx is done report its error.
func (r *Runner) Run(ctx context.Context, jobs []Job) []models.Result {
	results := make([]models.Result, len(jobs))

	sem := make(chan struct{}, r.concurrency)
	done := make(chan int, len(jobs))

	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = models.Result{Input: j.Input, Error: err.Error()}
			done <- i
			continue
		}
		select {
		case sem <- struct{}{}: // acquire
		case <-ctx.Done():
			results[i] = models.Result{Input: j.Input, Error: ctx.Err().Error()}
			done <- i
			continue
		}
		i, j := i, j // per-iteration copies (go directive < 1.22)
		go func() {
			defer func() { <-sem; done <- i }()
			results[i] = r.one(j)
		}()
	}
	for range jobs {
		<-done
	}
	return results
}

func (r *Runner) one(j Job) models.Result {
	log := r.log.With("input", j.Input)
	f, err := os.Open(j.Input)
	if err != nil {
		log.Errorf("open: %v", err)
		return models.Result{Input: j.Input, Error: err.Error()}
	}
	defer f.Close()

	stats, err := r.opt.OptimizeFile(f, "", j.Output)
	if err != nil {
		log.Errorf("optimize: %v", err)
		return models.Result{Input: j.Input, Error: err.Error()}
	}
	log.Debugf("wrote %s (%d links, %d images)", j.Output, stats.Links, stats.Images)
	return models.Result{Input: j.Input, Output: j.Output, Stats: &stats}
}
