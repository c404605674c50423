package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEmail(t *testing.T, raw string) domain.SubscriberEmail {
	t.Helper()
	e, err := domain.ParseSubscriberEmail(raw)
	require.NoError(t, err)
	return e
}

func TestSendEmail_SendsExpectedRequest(t *testing.T) {
	var got sendEmailRequest
	var gotToken, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, mustEmail(t, "newsletter@example.com"), secret.NewString("api-token"), time.Second)

	err := c.SendEmail(context.Background(), Email{
		To:       mustEmail(t, "ursula@example.com"),
		Subject:  "Welcome!",
		HTMLBody: "<p>Welcome</p>",
		TextBody: "Welcome",
	})
	require.NoError(t, err)

	assert.Equal(t, "api-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "newsletter@example.com", got.From)
	assert.Equal(t, "ursula@example.com", got.To)
	assert.Equal(t, "Welcome!", got.Subject)
	assert.Equal(t, "<p>Welcome</p>", got.HTMLBody)
	assert.Equal(t, "Welcome", got.TextBody)
}

func TestSendEmail_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ErrorCode":300}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, mustEmail(t, "newsletter@example.com"), secret.NewString("api-token"), time.Second)

	err := c.SendEmail(context.Background(), Email{To: mustEmail(t, "ursula@example.com")})
	assert.ErrorIs(t, err, common.ErrEmailDelivery)
}

func TestSendEmail_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, mustEmail(t, "newsletter@example.com"), secret.NewString("api-token"), 50*time.Millisecond)

	err := c.SendEmail(context.Background(), Email{To: mustEmail(t, "ursula@example.com")})
	assert.ErrorIs(t, err, common.ErrEmailDelivery)
}
