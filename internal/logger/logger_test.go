package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		wantInfo       bool
		wantDebug      bool
	}{
		{"default", false, false, true, false},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"quiet wins", true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.verbose, tt.quiet)

			log.Info().Msg("info message")
			log.Debug().Msg("debug message")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
		})
	}
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)
	log.Info().Int("colors", 12).Msg("extracted")
	assert.Contains(t, buf.String(), "colors=12")
}
