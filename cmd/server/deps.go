package main

import (
	"context"
	"crypto/rsa"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/delbertbeta/s-sso/cache"
	"github.com/delbertbeta/s-sso/cache/redis"
	"github.com/delbertbeta/s-sso/config"
	"github.com/delbertbeta/s-sso/domain"
	"github.com/delbertbeta/s-sso/gormstore"
	"github.com/delbertbeta/s-sso/internal/crypto"
	"github.com/delbertbeta/s-sso/log"
	"github.com/delbertbeta/s-sso/mongodb"
)

// openStore connects the configured persistence backend. With migrate set the
// relational schema is created or updated; the mongo backend always ensures
// its indexes.
func openStore(ctx context.Context, cfg *config.ServerConfig, migrate bool) (domain.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store, err := mongodb.NewStore(ctx, client, cfg.MongoDBName)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return store, nil

	case config.StoreDriverMySQL, config.StoreDriverSQLite:
		dsn := cfg.MySQLDSN
		if cfg.StoreDriver == config.StoreDriverSQLite {
			dsn = cfg.SQLitePath
		}
		db, err := gormstore.Open(cfg.StoreDriver, dsn, false)
		if err != nil {
			return nil, err
		}
		store := gormstore.New(db)
		if migrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// openSessions creates the session store for key exchanges and logins.
func openSessions(ctx context.Context, cfg *config.ServerConfig) (cache.SessionStore, error) {
	if cfg.SessionDriver != config.SessionDriverRedis {
		return cache.NewMemorySessionStore(), nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	sessions := redis.NewSessionStore(client, cfg.SessionPrefix)
	if err := sessions.Ping(ctx); err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	return sessions, nil
}

// loadSigningKey reads the ID token signing key from path, or generates one
// for the lifetime of the process when path is empty.
func loadSigningKey(ctx context.Context, path string, logger log.Logger) (*rsa.PrivateKey, error) {
	if path == "" {
		logger.Warn(ctx, "OIDC_SIGNING_KEY_FILE not set, generating an ephemeral signing key")
		return crypto.GenerateRSAKey(crypto.MinRSAKeyBits)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	key, err := crypto.ParsePrivateKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key %s: %w", path, err)
	}
	return key, nil
}
