// Package plan computes the cut points for one talk inside a room's stream.
//
// The planner never touches media itself: it emits a fully-specified Request
// that the ffmpeg wrapper interpolates into its argument template. Output
// paths are deterministic so repeated runs can skip clips that already exist.
package plan

import (
	"fmt"
	"path/filepath"
	"time"

	"talkcut/internal/services"
	"talkcut/internal/talk"
)

// clipExtension is the fixed container for extracted clips.
const clipExtension = ".mp4"

// Request carries everything the encoder needs to isolate one talk.
type Request struct {
	InputPath     string
	StartTimecode string
	EndTimecode   string
	// DurationSeconds is the clip length. Always positive; the planner
	// rejects inverted or degenerate ranges.
	DurationSeconds int
	// FadeOutStartSeconds marks where the one-second tail fade begins.
	FadeOutStartSeconds int
	OutputPath          string
	// IntroPath and OutroPath are optional static assets composited
	// around the clip. Presence is a configuration concern.
	IntroPath string
	OutroPath string
}

// Planner derives extraction requests for talks.
type Planner struct {
	introPath string
	outroPath string
}

// NewPlanner builds a planner with the configured intro/outro assets. Empty
// paths disable compositing.
func NewPlanner(introPath, outroPath string) *Planner {
	return &Planner{introPath: introPath, outroPath: outroPath}
}

// Plan computes the cut window for a talk within the room's downloaded
// stream. The output lands next to the stream, named by talk id.
func (p *Planner) Plan(roomStreamPath string, rec talk.Record) (Request, error) {
	duration := rec.Duration()
	if duration <= 0 {
		return Request{}, services.Wrap(services.ErrValidation, "plan", rec.ID,
			fmt.Sprintf("non-positive clip duration %s (start %s, end %s)", duration, rec.Start, rec.End), nil)
	}
	durationSeconds := int(duration / time.Second)
	if durationSeconds <= 1 {
		// The tail fade needs a positive start offset inside the clip; the
		// encoder's behaviour below one second is undefined.
		return Request{}, services.Wrap(services.ErrValidation, "plan", rec.ID,
			fmt.Sprintf("clip duration %s too short for the fade-out window", duration), nil)
	}

	return Request{
		InputPath:           roomStreamPath,
		StartTimecode:       Timecode(rec.Start),
		EndTimecode:         Timecode(rec.End),
		DurationSeconds:     durationSeconds,
		FadeOutStartSeconds: durationSeconds - 1,
		OutputPath:          filepath.Join(filepath.Dir(roomStreamPath), rec.ID+clipExtension),
		IntroPath:           p.introPath,
		OutroPath:           p.outroPath,
	}, nil
}

// Timecode renders a stream offset as H:MM:SS with the hour unpadded, the
// format the encoder expects.
func Timecode(offset time.Duration) string {
	if offset < 0 {
		offset = 0
	}
	total := int(offset / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
