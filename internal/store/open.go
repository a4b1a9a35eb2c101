package store

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Options selects and configures a backend. Only the fields relevant to
// Driver are read.
type Options struct {
	Driver string

	DataDir     string
	DatabaseURL string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(opts.DataDir)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("store.Open: unknown driver %q", opts.Driver)
	}
}
