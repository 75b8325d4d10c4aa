package app

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/api/trace"
	"go.uber.org/zap"

	"github.com/xakep666/licensecatalog/pkg/catalog"
)

// watchCatalogFiles rebuilds the catalog when a dataset file changes and
// swaps it into the shared holder. A failed rebuild keeps the old catalog.
// The returned function stops the watcher.
func watchCatalogFiles(logger *zap.Logger, cfg *Config, tracer trace.Tracer, target *catalog.Atomic) (func(), error) {
	log := logger.With(zap.String("component", "catalog_watcher"))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher init failed: %w", err)
	}

	paths := []string{cfg.Catalog.LicensesFile}
	if cfg.Catalog.SynonymsFile != "" {
		paths = append(paths, cfg.Catalog.SynonymsFile)
	}

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s failed: %w", p, err)
		}
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}

				log.Info("Dataset change detected", zap.String("file", event.Name))

				idx, err := BuildCatalog(context.Background(), logger, cfg, tracer)
				if err != nil {
					log.Error("Catalog rebuild failed, keeping previous catalog", zap.Error(err))
					continue
				}

				target.Store(idx)
				log.Info("Catalog reloaded", zap.Int("licenses", idx.Len()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.Error("Watcher error", zap.Error(err))
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
