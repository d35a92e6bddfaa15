package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier sends ops alerts to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncOpsAlertsFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncOpsAlertsSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendDegradedLoadAlert reports a partially failed view load.
func (s *Notifier) SendDegradedLoadAlert(view string, failures []string, dryRun bool) error {
	msg := s.formatDegradedLoadAlert(view, failures)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMutationFailureAlert reports a failed backend write.
func (s *Notifier) SendMutationFailureAlert(action, targetID string, cause error, dryRun bool) error {
	msg := s.formatMutationFailureAlert(action, targetID, cause)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendPartnerStatusAlert reports a partner status change.
func (s *Notifier) SendPartnerStatusAlert(partnerName, status string, dryRun bool) error {
	msg := s.formatPartnerStatusAlert(partnerName, status)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatDegradedLoadAlert creates the Slack message for a degraded view load using Block Kit.
func (s *Notifier) formatDegradedLoadAlert(view string, failures []string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "Degraded back-office load", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("View: %s\nFailed collections:\n%s", view, bulleted(failures))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	context := slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Observed: %s", time.Now().UTC().Format("02 Jan 2006, 15:04 MST")), true, false),
	)
	blocks = append(blocks, context)

	return slack.NewBlockMessage(blocks...)
}

// formatMutationFailureAlert creates the Slack message for a failed mutation write.
func (s *Notifier) formatMutationFailureAlert(action, targetID string, cause error) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "Back-office mutation failed", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	causeText := "unknown"
	if cause != nil {
		causeText = cause.Error()
	}
	detailsText := fmt.Sprintf("Action: %s\nTarget: %s\nCause: %s\nThe optimistic change was rolled back.", action, targetID, causeText)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPartnerStatusAlert creates the Slack message for a partner status change.
func (s *Notifier) formatPartnerStatusAlert(partnerName, status string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "Partner status changed", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Partner: %s\nNew status: %s", partnerName, status)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return strings.Join(out, "\n")
}
