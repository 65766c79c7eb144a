package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelNotificationMessage(t *testing.T) {
	msg := PanelNotification{
		Username:       "alice",
		Password:       "s3cret",
		HostingPackage: "gold",
		PanelType:      "public",
		Domain:         "panel.example.com",
		AccessKey:      "K1",
		UserID:         "7",
		ServerID:       "42",
	}.Message()

	assert.Contains(t, msg, "<b>New Panel Created!</b>")
	assert.Contains(t, msg, "Username: <b>alice</b>")
	assert.Contains(t, msg, "Password: <b>s3cret</b>")
	assert.Contains(t, msg, "Package: <b>GOLD</b>")
	assert.Contains(t, msg, "Panel Type: <b>PUBLIC</b>")
	assert.Contains(t, msg, "<code>K1</code>")
	assert.Contains(t, msg, "User ID: 7")
	assert.Contains(t, msg, "Server ID: 42")
}

func TestPanelNotificationMessageEscapesMarkup(t *testing.T) {
	msg := PanelNotification{
		Username:  "<script>alert(1)</script>",
		Password:  `pa"ss&word'`,
		Domain:    "evil<b>.com",
		AccessKey: "K<1>",
	}.Message()

	assert.NotContains(t, msg, "<script>")
	assert.Contains(t, msg, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, msg, "pa&#34;ss&amp;word&#39;")
	assert.Contains(t, msg, "evil&lt;b&gt;.com")
	assert.Contains(t, msg, "<code>K&lt;1&gt;</code>")
}

func TestPanelNotificationMessageUnknownKey(t *testing.T) {
	msg := PanelNotification{}.Message()
	assert.Contains(t, msg, "<code>Unknown</code>")
}

func TestWebhookSend(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	err := n.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", gotBody["message"])
}

func TestWebhookSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"rate limited"}`))
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestWebhookSendUnreachable(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:1")
	err := n.Send(context.Background(), "hello")
	assert.Error(t, err)
}
