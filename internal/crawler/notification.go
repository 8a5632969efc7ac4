package crawler

import (
	"fmt"
	"strings"

	"github.com/bradykim7/pricecrawl/internal/models"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorSuccess = 0x00ff00
	colorPartial = 0xff6600
	colorFailed  = 0xff0000

	// Discord rejects embeds with more fields than this
	maxEmbedFields = 25
)

// messageSender is the part of a Discord session used for reports
type messageSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ReportNotifier posts run reports to a Discord channel
type ReportNotifier struct {
	session   *discordgo.Session
	sender    messageSender
	channelID string
	logger    *zap.Logger
}

// NewReportNotifier creates a notifier for the given bot token and channel
func NewReportNotifier(token, channelID string, log *zap.Logger) (*ReportNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &ReportNotifier{
		session:   session,
		sender:    session,
		channelID: channelID,
		logger:    log.Named("notification-service"),
	}, nil
}

// Notify sends the report; failures are returned, never fatal to the crawler
func (n *ReportNotifier) Notify(report models.RunReport) error {
	embed := createReportEmbed(report)

	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		n.logger.Error("Failed to send Discord message",
			zap.Error(err),
			zap.String("channel_id", n.channelID))
		return fmt.Errorf("failed to send run report: %w", err)
	}

	n.logger.Info("Sent run report",
		zap.String("channel_id", n.channelID),
		zap.Int("records", report.TotalRecords()))
	return nil
}

// createReportEmbed creates a rich embed summarizing a run
func createReportEmbed(report models.RunReport) *discordgo.MessageEmbed {
	failed := report.Failed()

	color := colorSuccess
	if len(failed) > 0 {
		color = colorPartial
		if len(failed) == len(report.Seeds) {
			color = colorFailed
		}
	}

	// One field per site with its totals
	type siteTotals struct {
		seeds, records, pages, failed int
	}
	var order []string
	totals := make(map[string]*siteTotals)
	for _, s := range report.Seeds {
		t, ok := totals[s.Site]
		if !ok {
			t = &siteTotals{}
			totals[s.Site] = t
			order = append(order, s.Site)
		}
		t.seeds++
		t.records += s.Records
		t.pages += s.Pages
		if !s.Outcome.Normal() {
			t.failed++
		}
	}

	var fields []*discordgo.MessageEmbedField
	for _, site := range order {
		t := totals[site]
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   site,
			Value:  fmt.Sprintf("%d records | %d pages | %d/%d seeds ok", t.records, t.pages, t.seeds-t.failed, t.seeds),
			Inline: true,
		})
	}

	for _, s := range failed {
		if len(fields) == maxEmbedFields {
			break
		}
		value := string(s.Outcome)
		if s.Err != "" {
			value += ": " + s.Err
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   s.Seed,
			Value:  value,
			Inline: false,
		})
	}

	var description strings.Builder
	fmt.Fprintf(&description, "Collected %d products from %d seeds.", report.TotalRecords(), len(report.Seeds))
	if len(failed) > 0 {
		fmt.Fprintf(&description, " %d seed(s) terminated abnormally.", len(failed))
	}

	return &discordgo.MessageEmbed{
		Title:       "Price crawl finished",
		Description: description.String(),
		Color:       color,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Started at %s, took %s", report.StartedAt.Format("2006-01-02 15:04:05"), report.Duration.Round(1e9)),
		},
	}
}

// Close cleans up resources
func (n *ReportNotifier) Close() {
	if n.session != nil {
		n.session.Close()
	}
}
