package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	stageKey   contextKey = "stage"
	episodeKey contextKey = "episode_key"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the batch stage name.
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

// WithEpisode annotates context with the canonical episode key being processed.
func WithEpisode(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, episodeKey, key)
}

// EpisodeFromContext returns the episode key if present.
func EpisodeFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(episodeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
