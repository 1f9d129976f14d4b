package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/senzor/pkg/config"
	"github.com/dmitrymomot/senzor/pkg/redis"
	"github.com/dmitrymomot/senzor/pkg/session"
	"github.com/dmitrymomot/senzor/pkg/sqlite"
)

var errBothBackends = errors.New("use either --db or --redis-url, not both")

type deviceFlags struct {
	name     string
	dbPath   string
	redisURL string
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.name, "device", "default", "Device name; each device has its own visitor identity")
	cmd.PersistentFlags().StringVar(&f.dbPath, "db", "senzor-sim.db", "SQLite file holding device storage")
	cmd.PersistentFlags().StringVar(&f.redisURL, "redis-url", "", "Keep device storage in Redis instead of SQLite")
}

// clearer is implemented by the persistent scopes.
type clearer interface {
	Clear(ctx context.Context) error
}

// device is the persistent storage of one simulated browser profile.
type device struct {
	durable session.Scope
	// tab returns the session storage of a named tab.
	tab   func(name string) session.Scope
	close func() error
}

func (f *deviceFlags) open(ctx context.Context, cmd *cobra.Command) (*device, error) {
	if f.redisURL != "" && cmd.Flags().Changed("db") {
		return nil, errBothBackends
	}
	if f.redisURL != "" {
		return f.openRedis(ctx)
	}
	return f.openSQLite(ctx)
}

func (f *deviceFlags) openSQLite(ctx context.Context) (*device, error) {
	db, err := sqlite.Open(ctx, f.dbPath)
	if err != nil {
		return nil, err
	}
	return &device{
		durable: db.Scope(f.name),
		tab: func(name string) session.Scope {
			return db.Scope(tabNamespace(f.name, name))
		},
		close: db.Close,
	}, nil
}

func (f *deviceFlags) openRedis(ctx context.Context) (*device, error) {
	cfg := redis.DefaultConfig()
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	cfg.ConnectionURL = f.redisURL

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	durable, err := redis.NewScope(client, f.name, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &device{
		durable: durable,
		tab: func(name string) session.Scope {
			// The namespace is never empty, so NewScope cannot fail here.
			s, _ := redis.NewScope(client, tabNamespace(f.name, name), cfg)
			return s
		},
		close: client.Close,
	}, nil
}

func tabNamespace(device, tab string) string {
	return fmt.Sprintf("%s/tab/%s", device, tab)
}
