// Package watch provides the external reload trigger for the engine's
// long-lived resources.
//
// The taxonomy graph and retrieval index are immutable once built; replacing
// them is an external event, not something the engine decides on its own. A
// Watcher observes a single etcd key, typically written by whatever
// pipeline publishes a new taxonomy or corpus version, and invokes a
// callback with the key's value on every change. The callback is where the
// host rebuilds the resource and hands it to the engine's atomic swap.
//
// Example:
//
//	w, err := watch.New(watch.Config{
//	    Endpoints: []string{"localhost:2379"},
//	    Key:       "threatlink/taxonomy/version",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	go w.Run(ctx, func(value []byte) {
//	    store, err := taxonomy.LoadFile(string(value))
//	    if err != nil {
//	        logger.Error("taxonomy reload failed", "error", err)
//	        return
//	    }
//	    engine.SwapTaxonomy(store)
//	})
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Config configures the etcd connection and the key to observe.
type Config struct {
	// Endpoints is the etcd cluster endpoint list. Required.
	Endpoints []string

	// Key is the key whose changes trigger the callback. Required.
	Key string

	// DialTimeout is the maximum time to wait for the initial connection.
	// Default: 5 seconds.
	DialTimeout time.Duration
}

// Watcher observes one etcd key and reports its changes. All methods are
// safe for concurrent use; Run may only be active once at a time.
type Watcher struct {
	client *clientv3.Client
	key    string
	logger *slog.Logger
}

// New connects to etcd and verifies connectivity. A nil logger falls back to
// slog.Default().
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("watch: endpoints cannot be empty")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("watch: key cannot be empty")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("watch: create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if _, err := cli.Get(ctx, cfg.Key); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("watch: etcd health check failed: %w", err)
	}

	return &Watcher{client: cli, key: cfg.Key, logger: logger}, nil
}

// Current returns the key's current value, or nil if the key is unset.
func (w *Watcher) Current(ctx context.Context) ([]byte, error) {
	resp, err := w.client.Get(ctx, w.key)
	if err != nil {
		return nil, fmt.Errorf("watch: get %s: %w", w.key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, nil
	}
	return resp.Kvs[0].Value, nil
}

// Run blocks, invoking onChange with the new value each time the key is put.
// Deletions are logged and skipped; an empty value is not a valid reload
// target. Run returns when the context is cancelled or the watch channel
// closes.
func (w *Watcher) Run(ctx context.Context, onChange func(value []byte)) error {
	ch := w.client.Watch(ctx, w.key)
	w.logger.Info("watching reload key", "key", w.key)

	for resp := range ch {
		if err := resp.Err(); err != nil {
			return fmt.Errorf("watch: %s: %w", w.key, err)
		}
		for _, ev := range resp.Events {
			if ev.Type != clientv3.EventTypePut {
				w.logger.Warn("reload key deleted, ignoring", "key", w.key)
				continue
			}
			w.logger.Info("reload key changed",
				"key", w.key,
				"revision", ev.Kv.ModRevision)
			onChange(ev.Kv.Value)
		}
	}
	return ctx.Err()
}

// Ping verifies the etcd connection by fetching the watched key.
func (w *Watcher) Ping(ctx context.Context) error {
	if _, err := w.client.Get(ctx, w.key); err != nil {
		return fmt.Errorf("watch: ping: %w", err)
	}
	return nil
}

// Close releases the etcd connection.
func (w *Watcher) Close() error {
	return w.client.Close()
}
