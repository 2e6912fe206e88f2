package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"a@b@c", "***@***"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactEmail(tt.in))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zap.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("verbose"))
}

func TestEmailField(t *testing.T) {
	_, err := New(Options{Level: "info", RedactPII: true})
	require.NoError(t, err)
	assert.Equal(t, "jo***@example.com", Email("email", "john@example.com").String)

	_, err = New(Options{Level: "info", RedactPII: false})
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", Email("email", "john@example.com").String)

	redactPII = true
}
