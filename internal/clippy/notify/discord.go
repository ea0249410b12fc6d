package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"golang.org/x/time/rate"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

const discordFooter = "Evil Clippy • watching you type"

// Webhook posting stays under Discord's per-webhook limit of five requests per two seconds
const (
	discordBurst    = 5
	discordInterval = 2 * time.Second
)

// embedSender is the part of webhook.Client the sink needs
type embedSender interface {
	CreateEmbeds(embeds []discord.Embed, opts ...rest.RequestOpt) (*discord.Message, error)
}

// Discord posts events at or above a minimum severity to a webhook
type Discord struct {
	client      embedSender
	minSeverity verdict.Severity
	limiter     *rate.Limiter
}

// NewDiscord creates a webhook sink. An empty minSeverity means high.
func NewDiscord(webhookURL string, minSeverity verdict.Severity) (*Discord, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	client, err := webhook.NewWithURL(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return newDiscord(client, minSeverity), nil
}

func newDiscord(client embedSender, minSeverity verdict.Severity) *Discord {
	if !minSeverity.Valid() {
		minSeverity = verdict.SeverityHigh
	}
	return &Discord{
		client:      client,
		minSeverity: minSeverity,
		limiter:     rate.NewLimiter(rate.Every(discordInterval), discordBurst),
	}
}

// Name implements Sink
func (d *Discord) Name() string { return "discord" }

// Send implements Sink. Inactivity nudges and events below the threshold are skipped,
// and events beyond the webhook rate fail with errors.ErrRateLimited.
func (d *Discord) Send(_ context.Context, ev verdict.Event) error {
	if ev.Type != verdict.EventInsult || !ev.Severity.AtLeast(d.minSeverity) {
		return nil
	}
	if !d.limiter.Allow() {
		return fmt.Errorf("%w: discord webhook", errors.ErrRateLimited)
	}

	if _, err := d.client.CreateEmbeds([]discord.Embed{createEmbed(ev)}); err != nil {
		return fmt.Errorf("error sending webhook: %w", err)
	}
	return nil
}

func severityColor(s verdict.Severity) int {
	switch s {
	case verdict.SeverityHigh:
		return 0xE74C3C // red
	case verdict.SeverityMedium:
		return 0xF1C40F // gold
	default:
		return 0x3498DB // blue
	}
}

func severityTitle(ev verdict.Event) string {
	switch ev.Severity {
	case verdict.SeverityHigh:
		return "🔥 Evil Clippy is furious"
	case verdict.SeverityMedium:
		return "😒 Evil Clippy is annoyed"
	default:
		return "📎 Evil Clippy noticed something"
	}
}

// createEmbed renders one event
func createEmbed(ev verdict.Event) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle(severityTitle(ev)).
		SetDescription(sanitizeMentions(ev.Message)).
		AddField("File", fmt.Sprintf("`%s`", filepath.Base(ev.FilePath)), true).
		AddField("Severity", string(ev.Severity), true).
		SetColor(severityColor(ev.Severity)).
		SetFooter(discordFooter, "")

	if ev.ShouldLaugh {
		b = b.AddField("Also", sanitizeMentions(ev.LaughReason), false)
	}
	if ev.Timestamp.IsZero() {
		b = b.SetTimestamp(time.Now())
	} else {
		b = b.SetTimestamp(ev.Timestamp)
	}
	return b.Build()
}
