package talk

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"talkcut/internal/config"
	"talkcut/internal/logging"
)

// Rejection records why one spreadsheet row was dropped from the batch.
type Rejection struct {
	Line   int
	TalkID string
	Field  string
	Reason string
}

func (r Rejection) String() string {
	id := r.TalkID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("line %d (%s): %s: %s", r.Line, id, r.Field, r.Reason)
}

// ParseResult carries the valid records plus the per-row rejections.
type ParseResult struct {
	Records    []Record
	Rejections []Rejection
}

// Parser maps raw spreadsheet rows to talk records.
type Parser struct {
	columns    config.Columns
	skipHeader bool
	allowRoom  func(string) bool
	logger     *slog.Logger
}

// NewParser builds a parser from the deployment's column layout and room
// allow-list.
func NewParser(cfg *config.Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{
		columns:    cfg.CSV.Columns,
		skipHeader: cfg.CSV.SkipHeader,
		allowRoom:  cfg.RoomAllowed,
		logger:     logging.NewComponentLogger(logger, "parser"),
	}
}

// ParseFile reads the spreadsheet export and returns the valid records along
// with every rejection.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}

// Parse consumes CSV rows from r. Malformed CSV syntax is a hard error;
// semantically invalid rows are rejections.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &ParseResult{}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++
		if line == 1 && p.skipHeader {
			continue
		}

		record, rejection := p.ParseRow(line, row)
		if rejection != nil {
			p.logger.Warn("rejected spreadsheet row",
				logging.Int("line", rejection.Line),
				logging.String(logging.FieldTalkID, rejection.TalkID),
				logging.String("field", rejection.Field),
				logging.String("reason", rejection.Reason),
			)
			result.Rejections = append(result.Rejections, *rejection)
			continue
		}
		result.Records = append(result.Records, record)
	}

	p.logger.Info("parsed spreadsheet",
		logging.Int("valid", len(result.Records)),
		logging.Int("rejected", len(result.Rejections)),
	)
	return result, nil
}

// ParseRow maps one raw row to a Record, or explains why it cannot.
func (p *Parser) ParseRow(line int, row []string) (Record, *Rejection) {
	cols := p.columns
	id := strings.TrimSpace(cell(row, cols.ID))

	reject := func(field, reason string) (Record, *Rejection) {
		return Record{}, &Rejection{Line: line, TalkID: id, Field: field, Reason: reason}
	}

	room := strings.TrimSpace(cell(row, cols.Room))
	if room == "" {
		return reject("room", "missing room")
	}
	if id == "" {
		return reject("id", "missing talk id")
	}
	title := strings.TrimSpace(cell(row, cols.Title))
	if title == "" {
		return reject("title", "missing title")
	}

	start, err := ParseOffset(strings.TrimSpace(cell(row, cols.Start)))
	if err != nil {
		return reject("start", err.Error())
	}
	end, err := ParseOffset(strings.TrimSpace(cell(row, cols.End)))
	if err != nil {
		return reject("end", err.Error())
	}
	if end <= start {
		return reject("end", fmt.Sprintf("end offset %s not after start %s", end, start))
	}

	streamURL := StripTimeFragment(strings.TrimSpace(cell(row, cols.StreamURL)))
	if streamURL == "" {
		return reject("stream_url", "missing stream url")
	}

	if p.allowRoom != nil && !p.allowRoom(room) {
		return reject("room", fmt.Sprintf("room %q not in configured room list", room))
	}

	return Record{
		Room:      room,
		ID:        id,
		Title:     title,
		Start:     start,
		End:       end,
		StreamURL: streamURL,
		Speakers:  strings.TrimSpace(cell(row, cols.Speakers)),
	}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
