package database

import (
	"context"
	"fmt"
	"time"

	"spotless/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical separation
// for a cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - company records and other small
	// per-request lookups
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - auth session scratch data
	SESSION_CACHE_INDEX

	// PROFILE_CACHE_INDEX (DB 2) - profiles and external-identity mappings
	PROFILE_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for the event bus
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	newClient := func(index int) (CacheClient, error) {
		return valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    index,
		})
	}

	var err error
	if cacheDB.General, err = newClient(GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}
	if cacheDB.Session, err = newClient(SESSION_CACHE_INDEX); err != nil {
		return log.Err("failed to create session valkey client", err)
	}
	if cacheDB.Profile, err = newClient(PROFILE_CACHE_INDEX); err != nil {
		return log.Err("failed to create profile valkey client", err)
	}
	if cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client, dbName = cacheDB.General, "General"
	case SESSION_CACHE_INDEX:
		client, dbName = cacheDB.Session, "Session"
	case PROFILE_CACHE_INDEX:
		client, dbName = cacheDB.Profile, "Profile"
	case EVENTS_CACHE_INDEX:
		client, dbName = cacheDB.Events, "Events"
	default:
		log.Warn("unknown cache database index, skipping reset", "index", index)
		return
	}

	if client == nil {
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("failed to reset cache database", err, "cache", dbName)
		return
	}

	log.Info("Cache database reset", "cache", dbName)
}
