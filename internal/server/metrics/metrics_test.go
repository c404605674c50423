package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountersAppearInExposition(t *testing.T) {
	c := NewCollector()

	c.RecordSubscriptionCreated()
	c.RecordSubscriptionCreated()
	c.RecordSubscriptionConfirmed()
	c.RecordEmailSent()
	c.RecordEmailFailure()
	c.RecordHTTPRequest("POST", "/subscriptions", 200, 15*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "newsletter_subscriptions_created_total 2")
	assert.Contains(t, body, "newsletter_subscriptions_confirmed_total 1")
	assert.Contains(t, body, "newsletter_emails_sent_total 1")
	assert.Contains(t, body, "newsletter_emails_failed_total 1")
	assert.Contains(t, body, `newsletter_http_request_duration_seconds_count{method="POST",route="/subscriptions",status_code="200"} 1`)
}
