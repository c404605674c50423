package secret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExposeSecret(t *testing.T) {
	s := NewString("hunter2")
	assert.Equal(t, "hunter2", s.ExposeSecret())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, NewString("").IsEmpty())
	assert.True(t, String{}.IsEmpty())
	assert.False(t, NewString("x").IsEmpty())
}

func TestFormattingDoesNotLeak(t *testing.T) {
	s := NewString("hunter2")

	for _, formatted := range []string{
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", s),
		fmt.Sprintf("%#v", s),
	} {
		assert.NotContains(t, formatted, "hunter2")
		assert.Contains(t, formatted, redacted)
	}
}

func TestMarshalJSONDoesNotLeak(t *testing.T) {
	payload := struct {
		Password String `json:"password"`
	}{Password: NewString("hunter2")}

	b, err := json.Marshal(payload)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "hunter2")
	assert.JSONEq(t, `{"password":"[REDACTED]"}`, string(b))
}

func TestSlogDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("login attempt", "password", NewString("hunter2"))

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), redacted)
}
