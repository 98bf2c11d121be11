package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"talkcut/internal/cfp"
	"talkcut/internal/ledger"
	"talkcut/internal/logging"
	"talkcut/internal/pipeline"
	"talkcut/internal/plan"
	"talkcut/internal/services"
	"talkcut/internal/services/youtube"
	"talkcut/internal/testsupport"
)

type fakeDownloader struct {
	calls []string
}

func (f *fakeDownloader) Download(_ context.Context, streamURL, outputDir, room string) (string, error) {
	f.calls = append(f.calls, streamURL)
	path := filepath.Join(outputDir, room+".mp4")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte("stream"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeExtractor struct {
	requests []plan.Request
}

func (f *fakeExtractor) Extract(_ context.Context, req plan.Request) (string, error) {
	f.requests = append(f.requests, req)
	return req.OutputPath, nil
}

type fakeSource struct {
	talks    map[string]*cfp.Talk
	speakers map[string]*cfp.Speaker
}

func (f *fakeSource) LookupTalk(_ context.Context, id string) (*cfp.Talk, error) {
	if t, ok := f.talks[id]; ok {
		return t, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "cfp", "lookup-talk", id, nil)
}

func (f *fakeSource) LookupSpeaker(_ context.Context, uid string) (*cfp.Speaker, error) {
	if s, ok := f.speakers[uid]; ok {
		return s, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "cfp", "lookup-speaker", uid, nil)
}

type fakePublisher struct {
	inserts   []youtube.Metadata
	updates   map[string]youtube.Metadata
	playlists []string
	positions map[string]int64
	uploaded  []youtube.UploadedVideo
	nextID    int
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		updates:   make(map[string]youtube.Metadata),
		positions: make(map[string]int64),
	}
}

func (f *fakePublisher) Insert(_ context.Context, meta youtube.Metadata, _ string) (string, error) {
	f.inserts = append(f.inserts, meta)
	f.nextID++
	return fmt.Sprintf("video-%d", f.nextID), nil
}

func (f *fakePublisher) Update(_ context.Context, videoID string, meta youtube.Metadata) error {
	f.updates[videoID] = meta
	return nil
}

func (f *fakePublisher) CreatePlaylist(_ context.Context, title string) (string, error) {
	f.playlists = append(f.playlists, title)
	return fmt.Sprintf("playlist-%d", len(f.playlists)), nil
}

func (f *fakePublisher) AddToPlaylist(_ context.Context, _, videoID string, position int64) error {
	f.positions[videoID] = position
	return nil
}

func (f *fakePublisher) ListUploaded(context.Context) ([]youtube.UploadedVideo, error) {
	return f.uploaded, nil
}

// row builds a spreadsheet line in the default column layout.
func row(title, speakers, room, start, end, id, streamURL string) string {
	return strings.Join([]string{title, speakers, "track", room, start, end, id, streamURL}, ",")
}

const streamURL = "https://stream.example.org/amphi-a"

func roomCSV() string {
	return strings.Join([]string{
		row("Third Talk", "x", "Amphi A", "3h00m00s", "3h45m00s", "T3", streamURL),
		row("First Talk", "x", "Amphi A", "0h10m00s", "0h55m00s", "T1", streamURL),
		row("Second Talk", "x", "Amphi A", "1h30m00s", "2h15m00s", "T2", streamURL),
	}, "\n") + "\n"
}

func cfpFixture() *fakeSource {
	source := &fakeSource{
		talks:    make(map[string]*cfp.Talk),
		speakers: map[string]*cfp.Speaker{"u1": {UID: "u1", DisplayName: "jane doe"}},
	}
	for _, id := range []string{"T1", "T2", "T3"} {
		source.talks[id] = &cfp.Talk{ID: id, Title: "Talk " + id, Abstract: "abs", Speakers: []string{"u1"}}
	}
	return source
}

func TestRunUploadsRoomInStartOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCSV(roomCSV()))
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Download = true
	cfg.Pipeline.Extract = true
	cfg.Pipeline.Upload = true
	cfg.YouTube.Playlist = "${room} ${year}"
	store := testsupport.MustOpenStore(t, cfg)

	downloader := &fakeDownloader{}
	extractor := &fakeExtractor{}
	publisher := newFakePublisher()

	runner, err := pipeline.New(cfg, store, logging.NewNop(),
		pipeline.WithDownloader(downloader),
		pipeline.WithExtractor(extractor),
		pipeline.WithSource(cfpFixture()),
		pipeline.WithPublisher(publisher),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Completed != 3 || summary.Failed != 0 || summary.Review != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if len(downloader.calls) != 1 || downloader.calls[0] != streamURL {
		t.Fatalf("expected one download of the room stream, got %v", downloader.calls)
	}

	if len(extractor.requests) != 3 {
		t.Fatalf("expected 3 extraction requests, got %d", len(extractor.requests))
	}
	input := extractor.requests[0].InputPath
	outputs := make(map[string]bool)
	for _, req := range extractor.requests {
		if req.InputPath != input {
			t.Errorf("requests must share the room stream, got %q and %q", input, req.InputPath)
		}
		outputs[req.OutputPath] = true
	}
	if len(outputs) != 3 {
		t.Fatalf("expected distinct output paths, got %v", outputs)
	}
	wantOrder := []string{"1:30:00", "3:00:00"}
	if extractor.requests[0].StartTimecode != "0:10:00" ||
		extractor.requests[1].StartTimecode != wantOrder[0] ||
		extractor.requests[2].StartTimecode != wantOrder[1] {
		t.Fatalf("requests out of start order: %+v", extractor.requests)
	}

	if len(publisher.inserts) != 3 {
		t.Fatalf("expected 3 uploads, got %d", len(publisher.inserts))
	}
	if !strings.Contains(publisher.inserts[0].Title, "Talk T1") {
		t.Errorf("first upload should be the earliest talk, got %q", publisher.inserts[0].Title)
	}
	if len(publisher.playlists) != 1 || publisher.playlists[0] != "Amphi A 2024" {
		t.Fatalf("unexpected playlists %v", publisher.playlists)
	}
	if publisher.positions["video-1"] != 0 || publisher.positions["video-3"] != 2 {
		t.Fatalf("playlist positions must follow schedule order: %v", publisher.positions)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	for _, item := range items {
		if item.Status != ledger.StatusCompleted {
			t.Errorf("talk %s status = %s", item.TalkID, item.Status)
		}
		if item.VideoID == "" {
			t.Errorf("talk %s missing video id", item.TalkID)
		}
	}
}

func TestRunSecondPassSkipsCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCSV(roomCSV()))
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Extract = true
	store := testsupport.MustOpenStore(t, cfg)

	extractor := &fakeExtractor{}
	runner, err := pipeline.New(cfg, store, logging.NewNop(),
		pipeline.WithExtractor(extractor))
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Skipped != 3 || summary.Completed != 0 {
		t.Fatalf("second run should skip completed talks, got %+v", summary)
	}
	if len(extractor.requests) != 3 {
		t.Fatalf("extractor must not rerun completed talks, got %d requests", len(extractor.requests))
	}
}

func TestRunUnknownSpeakerMarksReviewAndContinues(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCSV(roomCSV()))
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Upload = true
	store := testsupport.MustOpenStore(t, cfg)

	source := cfpFixture()
	source.talks["T2"].Speakers = []string{"ghost"}

	runner, err := pipeline.New(cfg, store, logging.NewNop(),
		pipeline.WithSource(source),
		pipeline.WithPublisher(newFakePublisher()),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Review != 1 || summary.Completed != 2 {
		t.Fatalf("expected one review and two completions, got %+v", summary)
	}

	item, err := store.GetByTalkID(context.Background(), "T2")
	if err != nil {
		t.Fatalf("ledger get: %v", err)
	}
	if item.Status != ledger.StatusReview {
		t.Fatalf("T2 status = %s, want review", item.Status)
	}
	if item.ErrorMessage == "" {
		t.Fatal("expected error message on the ledger row")
	}
}

func TestRunTagModeMatchesByTalkID(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCSV(roomCSV()))
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Tag = true
	store := testsupport.MustOpenStore(t, cfg)

	publisher := newFakePublisher()
	publisher.uploaded = []youtube.UploadedVideo{
		{ID: "v1", Title: "T1"},
		{ID: "v3", Title: "T3"},
	}

	runner, err := pipeline.New(cfg, store, logging.NewNop(),
		pipeline.WithSource(cfpFixture()),
		pipeline.WithPublisher(publisher),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Completed != 2 || summary.Review != 1 {
		t.Fatalf("expected two tagged talks and one unmatched, got %+v", summary)
	}

	if _, ok := publisher.updates["v1"]; !ok {
		t.Error("expected v1 to be retagged")
	}
	if _, ok := publisher.updates["v3"]; !ok {
		t.Error("expected v3 to be retagged")
	}

	item, err := store.GetByTalkID(context.Background(), "T2")
	if err != nil {
		t.Fatalf("ledger get: %v", err)
	}
	if item.Status != ledger.StatusReview {
		t.Fatalf("unmatched talk status = %s, want review", item.Status)
	}
}

func TestRunTalkMissingFromCFPFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCSV(roomCSV()))
	cfg.CSV.SkipHeader = false
	cfg.Pipeline.Upload = true
	store := testsupport.MustOpenStore(t, cfg)

	source := cfpFixture()
	delete(source.talks, "T1")

	publisher := newFakePublisher()
	runner, err := pipeline.New(cfg, store, logging.NewNop(),
		pipeline.WithSource(source),
		pipeline.WithPublisher(publisher),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Completed != 3 {
		t.Fatalf("fallback talk must still complete, got %+v", summary)
	}
	if !strings.Contains(publisher.inserts[0].Title, "First Talk") {
		t.Errorf("fallback should keep the spreadsheet title, got %q", publisher.inserts[0].Title)
	}
	if publisher.inserts[0].Description != "First Talk" {
		t.Errorf("fallback description should be the title, got %q", publisher.inserts[0].Description)
	}
}
