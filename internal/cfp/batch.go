package cfp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"talkcut/internal/logging"
	"talkcut/internal/services"
)

// batchSource downloads the whole event once and answers lookups from memory.
// The document is immutable after that single fetch.
type batchSource struct {
	baseURL string
	eventID string
	apiKey  string
	client  HTTPDoer
	logger  *slog.Logger

	loaded   bool
	talks    map[string]*Talk
	speakers map[string]*Speaker
}

// NewBatchSource builds a Source backed by the event-wide JSON export.
func NewBatchSource(baseURL, eventID, apiKey string, client HTTPDoer, logger *slog.Logger) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &batchSource{
		baseURL: baseURL,
		eventID: eventID,
		apiKey:  apiKey,
		client:  client,
		logger:  logging.NewComponentLogger(logger, "cfp"),
	}
}

func (s *batchSource) LookupTalk(ctx context.Context, id string) (*Talk, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	talk, ok := s.talks[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "cfp", "lookup talk", fmt.Sprintf("talk %s has no CFP entry", id), nil)
	}
	return talk, nil
}

func (s *batchSource) LookupSpeaker(ctx context.Context, uid string) (*Speaker, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	speaker, ok := s.speakers[uid]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "cfp", "lookup speaker", fmt.Sprintf("speaker %s not in speaker index", uid), nil)
	}
	return speaker, nil
}

func (s *batchSource) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	endpoint := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(s.eventID))
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cfp", "build request", "invalid CFP endpoint", err)
	}

	s.logger.Info("downloading CFP data", logging.String("event", s.eventID))
	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "cfp", "fetch event", "CFP request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalTool, "cfp", "fetch event",
			fmt.Sprintf("unable to retrieve talk information on CFP: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}

	var payload struct {
		Talks    []*Talk    `json:"talks"`
		Speakers []*Speaker `json:"speakers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return services.Wrap(services.ErrExternalTool, "cfp", "decode event", "malformed CFP document", err)
	}

	s.talks = make(map[string]*Talk, len(payload.Talks))
	for _, talk := range payload.Talks {
		s.talks[talk.ID] = talk
	}
	s.speakers = make(map[string]*Speaker, len(payload.Speakers))
	for _, speaker := range payload.Speakers {
		s.speakers[speaker.UID] = speaker
	}
	s.loaded = true

	s.logger.Info("indexed CFP data",
		logging.Int("talks", len(s.talks)),
		logging.Int("speakers", len(s.speakers)),
	)
	return nil
}
