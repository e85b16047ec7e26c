package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantWarn  bool
		wantErr   bool
	}{
		{name: "default", level: "", wantWarn: true},
		{name: "debug", level: "debug", wantDebug: true, wantWarn: true},
		{name: "error", level: "error"},
		{name: "upper case", level: "INFO", wantWarn: true},
		{name: "unknown", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			log, err := New(&buf, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			log.Debug("debug message", zap.Int("cluster", 2))
			log.Warn("warn message")
			require.NoError(t, log.Sync())

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("warn message")))
			if tt.wantDebug {
				assert.Contains(t, buf.String(), `{"cluster": 2}`)
			}
		})
	}
}
