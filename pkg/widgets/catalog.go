package widgets

import (
	"github.com/jonboulle/clockwork"
	"github.com/jordanlanch/landing/config"
	"github.com/jordanlanch/landing/pkg/sequencer"
)

// Widget IDs as they appear in the page markup and the API.
const (
	WorkflowID      = "workflow"
	NotificationsID = "notifications"
	InsightsID      = "insights"
)

// WorkflowSteps are the stages of the lead pipeline animation.
var WorkflowSteps = []string{"Capture", "Enrich", "Score", "Route", "Notify"}

// Notifications are the toast cards shown one at a time.
var Notifications = []string{
	"New lead captured: Bright Smile Dental, Austin TX",
	"Lead scored 92: Summit Roofing Co.",
	"Routed to Maria (West territory)",
	"Follow-up sent: Harbor View Physio",
	"Deal won: Oak Street Bakery",
}

// InsightCards rotate two at a time beside the metrics panel.
var InsightCards = []string{
	"Response time down 38% this week",
	"Top source: organic search (41%)",
	"Dental leads convert 2.3x above average",
	"12 leads waiting longer than 24h",
	"Friday afternoons close best",
}

// Config holds the timings for every widget.
type Config struct {
	Clock         clockwork.Clock
	Workflow      sequencer.LinearConfig
	Notifications sequencer.RingConfig
	Insights      sequencer.RingConfig
	InsightScroll sequencer.ScrollConfig
}

// DefaultConfig returns the timings the landing page ships with.
func DefaultConfig() Config {
	insights := sequencer.DefaultRingConfig(len(InsightCards))
	insights.Interval = insights.Interval * 3 / 4
	insights.Visible = 2

	return Config{
		Workflow:      sequencer.DefaultLinearConfig(WorkflowSteps...),
		Notifications: sequencer.DefaultRingConfig(len(Notifications)),
		Insights:      insights,
		InsightScroll: sequencer.DefaultScrollConfig(),
	}
}

// ConfigFrom applies the application settings on top of DefaultConfig.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()

	c.Workflow.Dwell = cfg.WorkflowStepDwell
	c.Workflow.ConnectorTick = cfg.WorkflowConnectorTick
	c.Workflow.CompletionDelay = cfg.WorkflowCompletionDelay
	c.Workflow.CompletionHold = cfg.WorkflowCompletionHold

	c.Notifications.Interval = cfg.NotificationInterval
	c.Notifications.Fade = cfg.WidgetFadeDuration

	c.Insights.Interval = cfg.InsightInterval
	c.Insights.Fade = cfg.WidgetFadeDuration
	c.InsightScroll.Duration = cfg.InsightScrollDuration

	return c
}
