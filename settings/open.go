package settings

import (
	"context"
	"fmt"
	"strings"
)

// Store kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Kinds lists the supported store kinds.
func Kinds() []string {
	return []string{KindFile, KindSQLite, KindRedis, KindPostgres, KindMemory}
}

// Open creates a store of the given kind. dsn is a file path for file and
// sqlite, a redis:// URL for redis and a lib/pq DSN for postgres; memory
// ignores it.
func Open(ctx context.Context, kind, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMemory:
		return NewMemory(), nil
	case KindFile, "":
		return NewFile(dsn)
	case KindSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite store needs a database path")
		}
		return NewSQLite(dsn)
	case KindRedis:
		return NewRedis(ctx, dsn)
	case KindPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown settings store %q (want one of %s)", kind, strings.Join(Kinds(), "|"))
	}
}
