// Package notify posts operational events (review-zone matches, merge
// reports) to a Slack channel. Purely outbound; failures are logged and
// never propagated.
package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/poliscope/poliscope/internal/affairs"
	"github.com/poliscope/poliscope/internal/identity"
)

// chatPoster is the slice of the Slack client the notifier uses
type chatPoster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts resolution and reconciliation events to Slack.
// A notifier built without a token is inert and safe to call.
type Notifier struct {
	client  chatPoster
	channel string
}

// NewNotifier creates a notifier. With an empty token or channel the
// notifier is disabled.
func NewNotifier(botToken, channel string) *Notifier {
	if botToken == "" || channel == "" {
		return &Notifier{}
	}
	return &Notifier{
		client:  slack.New(botToken),
		channel: channel,
	}
}

// newWithClient is used by tests to inject a fake poster
func newWithClient(client chatPoster, channel string) *Notifier {
	return &Notifier{client: client, channel: channel}
}

// Enabled reports whether the notifier will actually post. Safe on a nil
// receiver, so callers may pass a nil notifier to disable posting.
func (n *Notifier) Enabled() bool {
	return n != nil && n.client != nil && n.channel != ""
}

// ReviewNeeded announces an undecided resolution that awaits human
// adjudication.
func (n *Notifier) ReviewNeeded(obs identity.Observation, res *identity.ResolveResult) {
	if !n.Enabled() {
		return
	}
	text := fmt.Sprintf(":mag: Review needed: %s %s (%s/%s) matched politician `%s` at %.2f via %s",
		obs.FirstName, obs.LastName, obs.Source, obs.SourceRef,
		res.PoliticianID, res.Confidence, res.Method)
	n.post(text)
}

// MergeReport announces the outcome of a reconciliation pass
func (n *Notifier) MergeReport(report *affairs.ReconcileReport) {
	if !n.Enabled() {
		return
	}
	text := fmt.Sprintf(":broom: Affair reconciliation: %d duplicates found, %d merged, %d errors, %d left for review",
		report.DuplicatesFound, report.Merged, report.Errors, report.RemainingPossible)
	if report.DryRun {
		text += " (dry run)"
	}
	n.post(text)
}

func (n *Notifier) post(text string) {
	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("notify: failed to post to Slack: %v", err)
	}
}
