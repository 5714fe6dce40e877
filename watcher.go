package gshade

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/soypat/gshade/assemble"
)

type WatcherConfig struct {
	// Cache builds reloaded descriptions. Nil uses a new cache.
	Cache *Cache
	// Logger receives reload failures as warnings. Nil uses [Logger].
	Logger *log.Logger
	// OnReload is called from [Watcher.Run] after a material file changed and its
	// program and lighting passes assembled successfully. The passes are cached
	// and available from [Cache.LightingPasses].
	OnReload func(path string, d Description, prog assemble.Program)
}

// Watcher rebuilds the programs of material files when they change on disk.
type Watcher struct {
	fs    *fsnotify.Watcher
	cfg   WatcherConfig
	log   *log.Logger
	files map[string]struct{}
}

// NewWatcher watches the material files at paths. The parent directories are
// watched so that editors replacing files on save are detected.
func NewWatcher(cfg WatcherConfig, paths ...string) (*Watcher, error) {
	if cfg.OnReload == nil {
		return nil, errors.New("gshade: nil OnReload callback")
	} else if len(paths) == 0 {
		return nil, errors.New("gshade: no files to watch")
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache(CacheConfig{Logger: cfg.Logger})
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:    fsw,
		cfg:   cfg,
		log:   loggerOr(cfg.Logger),
		files: make(map[string]struct{}),
	}
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run handles file events until ctx is done or the watcher is closed. It returns
// the context error or nil after [Watcher.Close].
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[abs]; watched {
				w.reload(abs)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watch error", "err", err)
		}
	}
}

func (w *Watcher) reload(path string) {
	d, err := LoadEffect(path)
	if err != nil {
		w.log.Warn("material reload failed", "path", path, "err", err)
		return
	}
	prog, err := w.cfg.Cache.Program(d)
	if err != nil {
		w.log.Warn("program assembly failed", "path", path, "err", err)
		return
	}
	if _, err := w.cfg.Cache.LightingPasses(d); err != nil {
		w.log.Warn("lighting pass assembly failed", "path", path, "err", err)
		return
	}
	w.log.Debug("material reloaded", "path", path, "model", d.Effect.ShadingModel)
	w.cfg.OnReload(path, d, prog)
}

// Close stops watching files. A running [Watcher.Run] returns.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
