package Slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
)

func TestNewAlerterWithoutWebhook(t *testing.T) {
	alerter := NewAlerter("", "production")
	require.Nil(t, alerter)

	// a nil alerter is a valid no-op notifier
	alerter.SolverFailed(context.Background(), errors.New("boom"), "")
	require.Error(t, alerter.Post(context.Background(), errors.New("boom"), ""))
}

func TestPost(t *testing.T) {
	received := make(chan slack.WebhookMessage, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var msg slack.WebhookMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		received <- msg
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	alerter := NewAlerter(server.URL, "staging")
	err := alerter.Post(context.Background(), errors.New("solver exited with code 3"), "memo table overflow")
	require.NoError(t, err)

	msg := <-received
	require.Len(t, msg.Attachments, 1)
	attachment := msg.Attachments[0]
	require.Equal(t, "danger", attachment.Color)
	require.Contains(t, attachment.Text, "code 3")

	var stderrField string
	for _, field := range attachment.Fields {
		if field.Title == "stderr" {
			stderrField = field.Value
		}
	}
	require.Contains(t, stderrField, "memo table overflow")
}

func TestSolverFailedIsAsync(t *testing.T) {
	delivered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
		close(delivered)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	NewAlerter(server.URL, "staging").SolverFailed(ctx, errors.New("boom"), "")
	// the request context ending must not abort the alert
	cancel()

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("alert was not delivered")
	}
}

func TestTail(t *testing.T) {
	require.Equal(t, "short", tail("short", 10))
	require.Equal(t, "…6789", tail("0123456789", 4))
	require.True(t, strings.HasPrefix(tail(strings.Repeat("x", 5000), maxStderrChars), "…"))
}
