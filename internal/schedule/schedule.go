// Package schedule groups talks by room and orders them inside the room's
// recorded stream.
//
// The per-room ordering is load-bearing: when manually uploaded videos are
// tagged later, the talk's position in this order is its playlist position.
// Ties on start offset must keep spreadsheet order, so sorting is stable.
package schedule

import (
	"log/slog"
	"sort"

	"talkcut/internal/logging"
	"talkcut/internal/talk"
)

// RoomSchedule is one room's ordered slice of the batch.
type RoomSchedule struct {
	Room string
	// StreamURL is the earliest-starting talk's URL. All talks in a room
	// are assumed to share one stream.
	StreamURL string
	Talks     []talk.Record
}

// GroupByRoom buckets talks per room and stable-sorts each bucket by
// ascending start offset. Rooms come back sorted by name so runs are
// reproducible.
func GroupByRoom(records []talk.Record, logger *slog.Logger) []RoomSchedule {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "scheduler")

	buckets := make(map[string][]talk.Record)
	order := make([]string, 0)
	for _, record := range records {
		if _, seen := buckets[record.Room]; !seen {
			order = append(order, record.Room)
		}
		buckets[record.Room] = append(buckets[record.Room], record)
	}
	sort.Strings(order)

	schedules := make([]RoomSchedule, 0, len(order))
	for _, room := range order {
		talks := buckets[room]
		sort.SliceStable(talks, func(i, j int) bool {
			return talks[i].Start < talks[j].Start
		})

		streamURL := talks[0].StreamURL
		for _, t := range talks[1:] {
			if t.StreamURL != streamURL {
				// The spreadsheet never guarantees one stream per room; the
				// earliest talk's URL wins and the divergence is surfaced.
				logger.Warn("room has diverging stream urls; using the earliest talk's",
					logging.String(logging.FieldRoom, room),
					logging.String(logging.FieldTalkID, t.ID),
					logging.String("stream_url", t.StreamURL),
					logging.String("chosen_url", streamURL),
				)
			}
		}

		schedules = append(schedules, RoomSchedule{
			Room:      room,
			StreamURL: streamURL,
			Talks:     talks,
		})
		logger.Info("scheduled room",
			logging.String(logging.FieldRoom, room),
			logging.Int("talks", len(talks)),
		)
	}
	return schedules
}
