package plan_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"talkcut/internal/plan"
	"talkcut/internal/services"
	"talkcut/internal/talk"
)

func TestTimecode(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   string
	}{
		{"zero", 0, "0:00:00"},
		{"typical", time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{"double digit hour", 10*time.Hour + 45*time.Minute, "10:45:00"},
		{"seconds only", 59 * time.Second, "0:00:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plan.Timecode(tt.offset); got != tt.want {
				t.Errorf("Timecode(%s) = %q, want %q", tt.offset, got, tt.want)
			}
		})
	}
}

func TestPlanComputesWindow(t *testing.T) {
	planner := plan.NewPlanner("", "")
	rec := talk.Record{
		Room:  "Amphi A",
		ID:    "XYZ123",
		Start: time.Hour,
		End:   time.Hour + 45*time.Minute,
	}

	req, err := planner.Plan(filepath.Join("/videos", "Amphi A", "Amphi A.mp4"), rec)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if req.StartTimecode != "1:00:00" || req.EndTimecode != "1:45:00" {
		t.Fatalf("timecodes = %s..%s", req.StartTimecode, req.EndTimecode)
	}
	if req.DurationSeconds != 2700 {
		t.Fatalf("duration = %d", req.DurationSeconds)
	}
	if req.FadeOutStartSeconds != 2699 {
		t.Fatalf("fade-out start = %d, want duration-1", req.FadeOutStartSeconds)
	}
	if req.OutputPath != filepath.Join("/videos", "Amphi A", "XYZ123.mp4") {
		t.Fatalf("output path = %q", req.OutputPath)
	}
}

func TestPlanOutputDeterministic(t *testing.T) {
	planner := plan.NewPlanner("", "")
	rec := talk.Record{ID: "XYZ123", Start: 0, End: time.Hour}

	first, err := planner.Plan("/videos/room/room.mp4", rec)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	second, err := planner.Plan("/videos/room/room.mp4", rec)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if first.OutputPath != second.OutputPath {
		t.Fatalf("output paths differ: %q vs %q", first.OutputPath, second.OutputPath)
	}
}

func TestPlanRejectsNonPositiveDuration(t *testing.T) {
	planner := plan.NewPlanner("", "")
	tests := []struct {
		name       string
		start, end time.Duration
	}{
		{"inverted", 2 * time.Hour, time.Hour},
		{"zero", time.Hour, time.Hour},
		{"one second", time.Hour, time.Hour + time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.Plan("/videos/r/r.mp4", talk.Record{ID: "X", Start: tt.start, End: tt.end})
			if err == nil {
				t.Fatal("expected planning error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
		})
	}
}

func TestPlanCarriesAssets(t *testing.T) {
	planner := plan.NewPlanner("/assets/intro.mp4", "/assets/outro.mp4")
	req, err := planner.Plan("/videos/r/r.mp4", talk.Record{ID: "X", Start: 0, End: time.Hour})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if req.IntroPath != "/assets/intro.mp4" || req.OutroPath != "/assets/outro.mp4" {
		t.Fatalf("assets not carried: %+v", req)
	}
}
