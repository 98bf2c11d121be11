package talk

import "time"

// UnknownOffset is the placeholder the spreadsheet uses when a talk's cut
// point has not been determined yet. Rows carrying it are rejected, never
// parsed as a time.
const UnknownOffset = "???"

// Record is the canonical in-memory representation of one talk.
type Record struct {
	// Room identifies the physical or virtual venue. One room has one
	// continuous recorded stream covering several talks.
	Room string
	// ID is the talk's unique identifier, used as the output filename stem
	// and as the CFP and YouTube cross-reference key.
	ID string
	// Title is the display title from the spreadsheet; CFP data may
	// overwrite it during resolution.
	Title string
	// Start and End are offsets into the room's recorded stream.
	Start time.Duration
	End   time.Duration
	// StreamURL is the room's stream with any inline deep-link time
	// fragment stripped.
	StreamURL string
	// Speakers is free text from the spreadsheet until CFP resolution
	// replaces it with a joined list of display names.
	Speakers string
	// Description defaults to the title when no CFP entry exists.
	Description string
	// Output is the absolute path of the cut clip, set once a cut plan exists.
	Output string
}

// Duration returns the clip length.
func (r Record) Duration() time.Duration {
	return r.End - r.Start
}
