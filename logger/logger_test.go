package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger(t *testing.T) {
	testCases := []struct {
		name    string
		level   Level
		log     func(l Logger)
		wantMsg string
		want    map[string]any
	}{
		{
			name:  "info with fields",
			level: InfoLevel,
			log: func(l Logger) {
				l.Info("statement", String("sql", "SELECT * FROM `t`"), Int("args", 2))
			},
			wantMsg: "statement",
			want: map[string]any{
				"level": "info",
				"sql":   "SELECT * FROM `t`",
				"args":  float64(2),
			},
		},
		{
			name:  "debug filtered",
			level: InfoLevel,
			log: func(l Logger) {
				l.Debug("hidden")
			},
		},
		{
			name:  "child logger",
			level: DebugLevel,
			log: func(l Logger) {
				l.With(String("table", "users")).Error("failed", Err(errors.New("boom")))
			},
			wantMsg: "failed",
			want: map[string]any{
				"level": "error",
				"table": "users",
				"error": "boom",
			},
		},
		{
			name:  "disabled",
			level: Disabled,
			log: func(l Logger) {
				l.Error("nothing")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := New(WithOutput(buf), WithLevel(tc.level))
			tc.log(l)

			if tc.wantMsg == "" {
				assert.Empty(t, buf.String())
				return
			}
			var got map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tc.wantMsg, got["message"])
			for k, v := range tc.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.With(String("k", "v")).Info("msg")
		l.Error("msg", Err(errors.New("x")))
	})
}
