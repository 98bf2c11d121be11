package talk_test

import (
	"strings"
	"testing"
	"time"

	"talkcut/internal/config"
	"talkcut/internal/logging"
	"talkcut/internal/talk"
)

// row builds a spreadsheet row in the default column layout:
// title, speakers, _, room, start, end, id, streamUrl.
func row(title, speakers, room, start, end, id, streamURL string) []string {
	return []string{title, speakers, "", room, start, end, id, streamURL}
}

func newTestParser(t *testing.T, rooms ...string) *talk.Parser {
	t.Helper()
	cfg := config.Default()
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Rooms = rooms
	return talk.NewParser(&cfg, logging.NewNop())
}

func TestParseRowValid(t *testing.T) {
	parser := newTestParser(t)
	record, rejection := parser.ParseRow(1, row(
		"Intro to Go", "jane doe", "Amphi A",
		"1h00m00s", "1h45m00s", "XYZ123",
		"https://stream.example.org/a?v=1&t=1h00m00s",
	))
	if rejection != nil {
		t.Fatalf("unexpected rejection: %v", rejection)
	}
	if record.Room != "Amphi A" || record.ID != "XYZ123" || record.Title != "Intro to Go" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Start != time.Hour || record.End != time.Hour+45*time.Minute {
		t.Fatalf("unexpected offsets: start=%s end=%s", record.Start, record.End)
	}
	if record.StreamURL != "https://stream.example.org/a?v=1" {
		t.Fatalf("expected deep link stripped, got %q", record.StreamURL)
	}
	if record.Duration() != 45*time.Minute {
		t.Fatalf("duration = %s", record.Duration())
	}
}

func TestParseRowRejections(t *testing.T) {
	parser := newTestParser(t)
	tests := []struct {
		name  string
		row   []string
		field string
	}{
		{"missing room", row("T", "S", "", "1h00m00s", "2h00m00s", "ID1", "https://s"), "room"},
		{"missing id", row("T", "S", "R", "1h00m00s", "2h00m00s", "", "https://s"), "id"},
		{"missing title", row("", "S", "R", "1h00m00s", "2h00m00s", "ID1", "https://s"), "title"},
		{"unknown start", row("T", "S", "R", "???", "2h00m00s", "ID1", "https://s"), "start"},
		{"unknown end", row("T", "S", "R", "1h00m00s", "???", "ID1", "https://s"), "end"},
		{"empty start", row("T", "S", "R", "", "2h00m00s", "ID1", "https://s"), "start"},
		{"inverted range", row("T", "S", "R", "2h00m00s", "1h00m00s", "ID1", "https://s"), "end"},
		{"zero duration", row("T", "S", "R", "1h00m00s", "1h00m00s", "ID1", "https://s"), "end"},
		{"missing stream", row("T", "S", "R", "1h00m00s", "2h00m00s", "ID1", ""), "stream_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rejection := parser.ParseRow(1, tt.row)
			if rejection == nil {
				t.Fatal("expected rejection")
			}
			if rejection.Field != tt.field {
				t.Errorf("rejected field = %q, want %q (reason %q)", rejection.Field, tt.field, rejection.Reason)
			}
		})
	}
}

func TestParseRowRoomAllowList(t *testing.T) {
	parser := newTestParser(t, "Amphi A")
	_, rejection := parser.ParseRow(1, row("T", "S", "Salle B", "1h00m00s", "2h00m00s", "ID1", "https://s"))
	if rejection == nil {
		t.Fatal("expected rejection for room outside the allow-list")
	}
	if rejection.Field != "room" {
		t.Fatalf("rejected field = %q, want room", rejection.Field)
	}
	if rejection.TalkID != "ID1" {
		t.Fatalf("rejection should carry the talk id for diagnosis, got %q", rejection.TalkID)
	}
}

func TestParseSkipsHeaderAndCollectsRejections(t *testing.T) {
	cfg := config.Default()
	cfg.CSV.SkipHeader = true
	parser := talk.NewParser(&cfg, logging.NewNop())

	csvData := strings.Join([]string{
		"Title,Speakers,Track,Room,Start,End,Id,Stream",
		`Talk One,Jane,x,Amphi A,1h00m00s,1h45m00s,AAA,https://stream/a`,
		`Broken,John,x,Amphi A,???,2h00m00s,BBB,https://stream/a`,
		`Talk Two,Joe,x,Salle B,0h10m00s,0h55m00s,CCC,https://stream/b`,
	}, "\n")

	result, err := parser.Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(result.Records))
	}
	if len(result.Rejections) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(result.Rejections))
	}
	rej := result.Rejections[0]
	if rej.TalkID != "BBB" || rej.Line != 3 {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if !strings.Contains(rej.String(), "BBB") {
		t.Fatalf("rejection string should identify the talk: %s", rej.String())
	}
}

func TestParseShortRowRejectedNotPanic(t *testing.T) {
	parser := newTestParser(t)
	_, rejection := parser.ParseRow(1, []string{"Only Title"})
	if rejection == nil {
		t.Fatal("expected short row to be rejected")
	}
}
