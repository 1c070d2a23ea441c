package logutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestGetOrDefault(t *testing.T) {
	var out bytes.Buffer
	logger := New(&out, zerolog.InfoLevel).With().Str("request_id", "req-7").Logger()

	ctx := WithLogger(context.Background(), logger)
	l := GetOrDefault(ctx)
	l.Info().Msg("from context")
	require.Contains(t, out.String(), `"request_id":"req-7"`)

	require.Equal(t, log.Logger, GetOrDefault(context.Background()))
	require.Equal(t, log.Logger, GetOrDefault(nil))
}
