package Slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const (
	postTimeout = 15 * time.Second
	// stderr is cut down to its last maxStderrChars runes
	maxStderrChars = 2000
)

// Alerter posts solver failures to a Slack incoming webhook.
type Alerter struct {
	webhookURL  string
	environment string
}

// NewAlerter returns nil when no webhook is configured.
func NewAlerter(webhookURL, environment string) *Alerter {
	if webhookURL == "" {
		return nil
	}
	return &Alerter{
		webhookURL:  webhookURL,
		environment: environment,
	}
}

// SolverFailed posts the alert in the background so the request is not held up.
func (a *Alerter) SolverFailed(ctx context.Context, err error, stderr string) {
	if a == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postTimeout)
		defer cancel()
		if postErr := a.Post(ctx, err, stderr); postErr != nil {
			log.Warn().Err(postErr).Msg("slack alert not delivered")
		}
	}()
}

// Post sends one alert and waits for Slack to accept it.
func (a *Alerter) Post(ctx context.Context, err error, stderr string) error {
	if a == nil {
		return errors.New("slack alerter is not configured")
	}

	fields := []slack.AttachmentField{
		{Title: "Environment", Value: a.environment, Short: true},
		{Title: "Time", Value: time.Now().UTC().Format(time.RFC3339), Short: true},
	}
	attachment := slack.Attachment{
		Color:  "danger",
		Title:  "Route solver failure",
		Text:   err.Error(),
		Fields: fields,
	}
	if stderr != "" {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: "stderr",
			Value: fmt.Sprintf("```%s```", tail(stderr, maxStderrChars)),
		})
	}

	msg := &slack.WebhookMessage{
		Text:        ":rotating_light: route optimization failed in the solver",
		Attachments: []slack.Attachment{attachment},
	}
	if err := slack.PostWebhookContext(ctx, a.webhookURL, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	return nil
}

func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return "…" + string(runes[len(runes)-n:])
}
