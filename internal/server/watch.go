package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/postbuilder/internal/logfields"
)

// watch rebuilds after content changes, debounced so one editor save (which
// often produces several events) triggers a single rebuild.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// fsnotify watches are not recursive; register every directory and pick
	// up new ones as they appear.
	err = filepath.WalkDir(s.cfg.Content.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		fire := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				slog.Debug("Content changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(s.cfg.Serve.Debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Watcher error", logfields.Error(err))
			case <-fire:
				slog.Info("Content changed, rebuilding")
				if err := s.rebuild(ctx); err != nil {
					slog.Error("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()

	return nil
}

// schedule adds a fixed-interval rebuild alongside the watcher, for content
// sources the watcher cannot see (network mounts, generated includes).
func (s *Server) schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Serve.RebuildInterval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild")
			if err := s.rebuild(ctx); err != nil {
				slog.Error("Scheduled rebuild failed", logfields.Error(err))
			}
		}),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	go func() {
		<-ctx.Done()
		_ = scheduler.Shutdown()
	}()
	return nil
}
