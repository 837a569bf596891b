package events

import (
	"context"

	"cleanroster/internal/constants"
	"cleanroster/internal/database"

	logger "github.com/Bparsons0904/goLogger"
)

// InvalidateStatsSnapshot drops the cached statistics snapshot whenever a
// reservation or group changes, so the next read recomputes it.
func InvalidateStatsSnapshot(bus *EventBus, cache database.CacheClient) {
	if cache == nil {
		return
	}

	log := logger.New("events").Function("InvalidateStatsSnapshot")
	handler := func(event Event) error {
		err := database.NewCacheBuilder(cache, constants.StatsSnapshotKey).
			WithHash(constants.StatsCachePrefix).
			WithContext(context.Background()).
			Delete()
		if err != nil {
			return log.Err("failed to drop statistics snapshot", err, "eventType", event.Type)
		}
		return nil
	}

	bus.Subscribe(RESERVATIONS_CHANNEL, handler)
	bus.Subscribe(GROUPS_CHANNEL, handler)
}
