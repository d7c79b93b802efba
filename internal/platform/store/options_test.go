package store

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithLogger_SetsOnStore(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := &Store{}
	if err := WithLogger(zerolog.New(&buf))(s); err != nil {
		t.Fatalf("WithLogger returned error: %v", err)
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("expected logger to write to buffer")
	}
}
