package services

import "context"

type contextKey string

const (
	talkIDKey contextKey = "talk_id"
	roomKey   contextKey = "room"
	stageKey  contextKey = "stage"
	runIDKey  contextKey = "run_id"
)

// WithTalkID annotates context with the talk identifier.
func WithTalkID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, talkIDKey, id)
}

// TalkIDFromContext extracts the talk identifier if present.
func TalkIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(talkIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRoom annotates context with the room being processed.
func WithRoom(ctx context.Context, room string) context.Context {
	if room == "" {
		return ctx
	}
	return context.WithValue(ctx, roomKey, room)
}

// RoomFromContext returns the room name if present.
func RoomFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(roomKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
