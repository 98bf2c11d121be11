package cfp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"talkcut/internal/config"
	"talkcut/internal/logging"
	"talkcut/internal/services"
)

// perTalkSource queries the CFP one entity at a time, the transport earlier
// deployments exposed.
type perTalkSource struct {
	baseURL string
	eventID string
	apiKey  string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewPerTalkSource builds a Source backed by per-entity endpoints.
func NewPerTalkSource(baseURL, eventID, apiKey string, client HTTPDoer, logger *slog.Logger) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &perTalkSource{
		baseURL: baseURL,
		eventID: eventID,
		apiKey:  apiKey,
		client:  client,
		logger:  logging.NewComponentLogger(logger, "cfp"),
	}
}

func (s *perTalkSource) LookupTalk(ctx context.Context, id string) (*Talk, error) {
	var talk Talk
	if err := s.get(ctx, "talks", id, &talk); err != nil {
		return nil, err
	}
	return &talk, nil
}

func (s *perTalkSource) LookupSpeaker(ctx context.Context, uid string) (*Speaker, error) {
	var speaker Speaker
	if err := s.get(ctx, "speakers", uid, &speaker); err != nil {
		return nil, err
	}
	return &speaker, nil
}

func (s *perTalkSource) get(ctx context.Context, kind, id string, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", s.baseURL, url.PathEscape(s.eventID), kind, url.PathEscape(id))
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cfp", "build request", "invalid CFP endpoint", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "cfp", "fetch "+kind, "CFP request failed", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "cfp", "fetch "+kind, fmt.Sprintf("%s %s has no CFP entry", kind, id), nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrExternalTool, "cfp", "fetch "+kind,
			fmt.Sprintf("unable to retrieve %s %s on CFP: %d - %s", kind, id, resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternalTool, "cfp", "decode "+kind, "malformed CFP document", err)
	}
	return nil
}

// NewSource selects the transport configured for this deployment.
func NewSource(cfg *config.Config, client HTTPDoer, logger *slog.Logger) (Source, error) {
	switch cfg.CFP.Mode {
	case "batch":
		return NewBatchSource(cfg.CFP.BaseURL, cfg.CFP.EventID, cfg.CFP.APIKey, client, logger), nil
	case "pertalk":
		return NewPerTalkSource(cfg.CFP.BaseURL, cfg.CFP.EventID, cfg.CFP.APIKey, client, logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "cfp", "select transport",
			fmt.Sprintf("unknown cfp mode %q", cfg.CFP.Mode), nil)
	}
}
