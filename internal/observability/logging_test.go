package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name:    "default config",
			cfg:     DefaultLogConfig(),
			wantErr: false,
		},
		{
			name:    "console format on stderr",
			cfg:     LogConfig{Level: "debug", Format: "console", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			cfg:     LogConfig{Level: "verbose", Format: "json", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	child := logger.With(String("component", "test"))
	require.NotNil(t, child)

	// Logging through the child must not panic.
	child.Info("message", Int("count", 1))
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	logger := NopLogger()

	t.Run("without request id", func(t *testing.T) {
		t.Parallel()
		assert.Same(t, logger, logger.WithContext(context.Background()))
	})

	t.Run("with request id", func(t *testing.T) {
		t.Parallel()
		ctx := ContextWithRequestID(context.Background(), "req-123")
		child := logger.WithContext(ctx)
		assert.NotSame(t, logger, child)
	})
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-456")
	assert.Equal(t, "req-456", RequestIDFromContext(ctx))
}

func TestGlobalLogger(t *testing.T) {
	logger := NopLogger()
	SetGlobalLogger(logger)
	assert.Same(t, logger, GetGlobalLogger())
	assert.Same(t, logger, L())
}
