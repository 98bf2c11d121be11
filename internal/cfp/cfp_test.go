package cfp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"talkcut/internal/cfp"
	"talkcut/internal/config"
	"talkcut/internal/logging"
	"talkcut/internal/services"
)

const batchDocument = `{
  "talks": [
    {"id": "XYZ123", "title": "Intro to Go", "abstract": "A **great** talk", "speakers": ["u1", "u2"]}
  ],
  "speakers": [
    {"uid": "u1", "displayName": "JANE DOE"},
    {"uid": "u2", "displayName": "john smith"}
  ]
}`

func TestBatchSourceFetchesOnce(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(batchDocument))
	}))
	defer server.Close()

	source := cfp.NewBatchSource(server.URL, "bdxio", "secret", server.Client(), logging.NewNop())
	ctx := context.Background()

	talk, err := source.LookupTalk(ctx, "XYZ123")
	if err != nil {
		t.Fatalf("lookup talk: %v", err)
	}
	if talk.Title != "Intro to Go" || len(talk.Speakers) != 2 {
		t.Fatalf("unexpected talk: %+v", talk)
	}

	speaker, err := source.LookupSpeaker(ctx, "u1")
	if err != nil {
		t.Fatalf("lookup speaker: %v", err)
	}
	if speaker.DisplayName != "JANE DOE" {
		t.Fatalf("unexpected speaker: %+v", speaker)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected a single fetch, got %d", hits.Load())
	}
}

func TestBatchSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(batchDocument))
	}))
	defer server.Close()

	source := cfp.NewBatchSource(server.URL, "bdxio", "", server.Client(), logging.NewNop())

	if _, err := source.LookupTalk(context.Background(), "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
	if _, err := source.LookupSpeaker(context.Background(), "ghost"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestBatchSourceFetchFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	source := cfp.NewBatchSource(server.URL, "bdxio", "", server.Client(), logging.NewNop())
	_, err := source.LookupTalk(context.Background(), "XYZ123")
	if err == nil {
		t.Fatal("expected fetch failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if errors.Is(err, services.ErrNotFound) {
		t.Fatal("fetch failure must not look like a missing entry")
	}
}

func TestPerTalkSourceRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bdxio/talks/XYZ123":
			_, _ = w.Write([]byte(`{"id": "XYZ123", "title": "Intro to Go", "abstract": "abs", "speakers": ["u1"]}`))
		case "/bdxio/speakers/u1":
			_, _ = w.Write([]byte(`{"uid": "u1", "displayName": "JANE DOE"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := cfp.NewPerTalkSource(server.URL, "bdxio", "", server.Client(), logging.NewNop())
	ctx := context.Background()

	talk, err := source.LookupTalk(ctx, "XYZ123")
	if err != nil {
		t.Fatalf("lookup talk: %v", err)
	}
	if talk.Title != "Intro to Go" {
		t.Fatalf("unexpected talk: %+v", talk)
	}

	if _, err := source.LookupTalk(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for 404, got %v", err)
	}

	speaker, err := source.LookupSpeaker(ctx, "u1")
	if err != nil {
		t.Fatalf("lookup speaker: %v", err)
	}
	if speaker.DisplayName != "JANE DOE" {
		t.Fatalf("unexpected speaker: %+v", speaker)
	}
}

func TestNewSourceSelectsTransport(t *testing.T) {
	cfg := config.Default()
	cfg.CFP.BaseURL = "https://cfp.example.org"
	cfg.CFP.EventID = "bdxio"

	cfg.CFP.Mode = "batch"
	if _, err := cfp.NewSource(&cfg, nil, logging.NewNop()); err != nil {
		t.Fatalf("batch: %v", err)
	}

	cfg.CFP.Mode = "pertalk"
	if _, err := cfp.NewSource(&cfg, nil, logging.NewNop()); err != nil {
		t.Fatalf("pertalk: %v", err)
	}

	cfg.CFP.Mode = "bogus"
	if _, err := cfp.NewSource(&cfg, nil, logging.NewNop()); err == nil {
		t.Fatal("expected unknown mode error")
	}
}
