package slack

import (
	"fmt"

	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/slack-go/slack"
)

// GetSeverityEmoji returns emoji based on severity
func GetSeverityEmoji(severity types.Severity) string {
	switch severity {
	case types.SeverityHigh:
		return "🚨"
	case types.SeverityMedium:
		return "⚠️"
	case types.SeverityLow:
		return "ℹ️"
	default:
		return "❓"
	}
}

// BlockBuilder provides methods to build Slack message blocks
type BlockBuilder struct{}

// NewBlockBuilder creates a new BlockBuilder instance
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{}
}

// FallbackText is shown by clients that cannot render blocks
func (b *BlockBuilder) FallbackText(incident *model.Incident) string {
	return fmt.Sprintf("New %s report (%s severity)", incident.IncidentType, incident.Severity)
}

// BuildIncidentBlocks creates the announcement for a new incident
func (b *BlockBuilder) BuildIncidentBlocks(incident *model.Incident) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("%s New report: %s", GetSeverityEmoji(incident.Severity), incident.IncidentType),
			true, false),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Severity:*\n%s", incident.Severity), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Grade:*\n%s", model.GradeLevel(incident.GradeSection)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Reported by:*\n%s", incident.ReportedBy), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Date:*\n%s", incident.Date), false, false),
	}
	section := slack.NewSectionBlock(nil, fields, nil)

	footer := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Incident ID: `%s` · open the safety log for details", incident.ID),
			false, false),
	)

	return []slack.Block{header, section, footer}
}
