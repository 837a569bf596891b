package database

import (
	"context"
	"fmt"
	"time"

	"cleanroster/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category.
const (
	// GENERAL_CACHE_INDEX holds statistics snapshots and other shared values.
	GENERAL_CACHE_INDEX = iota
	// SESSION_CACHE_INDEX holds revoked tokens.
	SESSION_CACHE_INDEX
	// USER_CACHE_INDEX holds user lookups made by the auth middleware.
	USER_CACHE_INDEX
	// EVENTS_CACHE_INDEX carries the pub/sub channels of the event bus.
	EVENTS_CACHE_INDEX
)

func newCacheClient(address string, port, index int) (CacheClient, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
		SelectDB:    index,
	})
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache
	var err error

	if cacheDB.General, err = newCacheClient(address, port, GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}
	if cacheDB.Session, err = newCacheClient(address, port, SESSION_CACHE_INDEX); err != nil {
		return log.Err("failed to create session valkey client", err)
	}
	if cacheDB.User, err = newCacheClient(address, port, USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}
	if cacheDB.Events, err = newCacheClient(address, port, EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func cacheForIndex(index int, cacheDB Cache) (CacheClient, string, bool) {
	switch index {
	case GENERAL_CACHE_INDEX:
		return cacheDB.General, "General", true
	case SESSION_CACHE_INDEX:
		return cacheDB.Session, "Session", true
	case USER_CACHE_INDEX:
		return cacheDB.User, "User", true
	case EVENTS_CACHE_INDEX:
		return cacheDB.Events, "Events", true
	default:
		return nil, "", false
	}
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, dbName, ok := cacheForIndex(index, cacheDB)
	if !ok || client == nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}

// FlushAllCaches empties every cache database, used when reseeding.
func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for index := GENERAL_CACHE_INDEX; index <= EVENTS_CACHE_INDEX; index++ {
		client, dbName, ok := cacheForIndex(index, s.Cache)
		if !ok || client == nil {
			continue
		}
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("failed to flush cache database", err, "dbName", dbName)
		}
	}

	log.Info("Flushed all cache databases")
	return nil
}
