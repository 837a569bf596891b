package constants

import "time"

const (
	UserCachePrefix     = "user"    // user by id (CacheBuilder adds colon)
	RevokedTokenPrefix  = "revoked" // revoked token ids, session cache
	StatsCachePrefix    = "stats"
	StatsSnapshotKey    = "snapshot"
	UserCacheExpiry     = 24 * time.Hour
	StatsSnapshotExpiry = 2 * time.Hour
)

const (
	JobStatisticsSnapshot = "statistics-snapshot"
)
