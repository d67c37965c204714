package ctxutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRunID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name   string
		ctx    context.Context
		want   uuid.UUID
		wantOK bool
	}{
		{"stored", WithRunID(context.Background(), id), id, true},
		{"empty context", context.Background(), uuid.Nil, false},
		{"nil uuid", WithRunID(context.Background(), uuid.Nil), uuid.Nil, false},
		{"wrong type", context.WithValue(context.Background(), runIDKey, id.String()), uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := RunIDFromCtx(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "req-123", RequestIDFromCtx(WithRequestID(context.Background(), "req-123")))
	assert.Empty(t, RequestIDFromCtx(context.Background()))
	assert.Empty(t, RequestIDFromCtx(context.WithValue(context.Background(), requestIDKey, 12345)))
}

func TestLogger(t *testing.T) {
	t.Parallel()

	runID := uuid.New()
	tests := []struct {
		name    string
		ctx     context.Context
		want    []string
		notWant []string
	}{
		{
			name:    "bare context",
			ctx:     context.Background(),
			notWant: []string{"run_id", "request_id"},
		},
		{
			name:    "build run",
			ctx:     WithRunID(context.Background(), runID),
			want:    []string{"run_id=" + runID.String()},
			notWant: []string{"request_id"},
		},
		{
			name: "request inside a run",
			ctx:  WithRequestID(WithRunID(context.Background(), runID), "req-9"),
			want: []string{"run_id=" + runID.String(), "request_id=req-9"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			base := slog.New(slog.NewTextHandler(&buf, nil))

			Logger(tt.ctx, base).Info("syllables built")

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestLogger_ReturnsBaseWhenNothingToAdd(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, base, Logger(context.Background(), base))
}
