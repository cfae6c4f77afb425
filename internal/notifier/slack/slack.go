package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/tier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const timeLayout = "Monday 02 Jan, 15:04"

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	location  *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		log.Warn("Falling back to UTC for Slack timestamps", "error", err)
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		location:  loc,
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
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendResultNotification(summary *notifier.MatchSummary, dryRun bool) error {
	if summary == nil || summary.Match == nil {
		return fmt.Errorf("no match to notify about")
	}
	msg := s.formatResultNotification(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendTierPromotion(change notifier.TierChange, dryRun bool) error {
	msg := s.formatTierPromotion(change)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendMatchProposal(request *matchmaking.MatchRequest, proposal *matchmaking.MatchProposal, dryRun bool) error {
	msg := s.formatMatchProposal(request, proposal)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []club.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []club.Player) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPlayerProgressResponse formats a player's tier progress for a slash command response.
func (s *Notifier) FormatPlayerProgressResponse(player *club.Player, progress tier.Progress) (any, error) {
	if player == nil {
		return nil, fmt.Errorf("no player to format progress for")
	}
	return s.formatPlayerProgress(player, progress), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error) {
	return s.formatPlayerNotFound(query, suggestions), nil
}

// FormatPartnerSuggestionsResponse formats partner suggestions for a slash command response.
func (s *Notifier) FormatPartnerSuggestionsResponse(player *club.Player, suggestions []matchmaking.PartnerSuggestion) (any, error) {
	if player == nil {
		return nil, fmt.Errorf("no player to suggest partners for")
	}
	return s.formatPartnerSuggestions(player, suggestions), nil
}

// formatResultNotification creates the Slack message for a rated match using Block Kit.
func (s *Notifier) formatResultNotification(summary *notifier.MatchSummary) slack.Message {
	match := summary.Match
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match result 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s at %s", formatName(match.Format), match.PlayedAt.In(s.location).Format(timeLayout))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	sideA := teamName(summary.SideA, match.SideA)
	sideB := teamName(summary.SideB, match.SideB)
	var resultText string
	switch match.Outcome {
	case rating.Win:
		resultText = fmt.Sprintf("Result: %s beat %s! 🏆", sideA, sideB)
	case rating.Loss:
		resultText = fmt.Sprintf("Result: %s beat %s! 🏆", sideB, sideA)
	default:
		resultText = fmt.Sprintf("Result: %s and %s drew", sideA, sideB)
	}

	var fields []*slack.TextBlockObject
	var rated *club.RatingChange
	for _, p := range append(append([]club.Player{}, summary.SideA...), summary.SideB...) {
		change, ok := summary.Changes[p.ID]
		if !ok {
			continue
		}
		if rated == nil {
			rated = &change
		}
		fields = append(fields, slack.NewTextBlockObject("mrkdwn",
			fmt.Sprintf("*%s*\n%.0f → %.0f (%s) | +%d pts", p.Name, change.OldRating, change.NewRating, signed(change.Change), change.PointsAwarded),
			false, false))
	}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), fields, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))
	}

	if rated != nil {
		ctxText := fmt.Sprintf("Rated with the %s strategy, K=%.0f", rated.Strategy, rated.KFactor)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", ctxText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatTierPromotion announces a player reaching a new tier.
func (s *Notifier) formatTierPromotion(change notifier.TierChange) slack.Message {
	headerText := fmt.Sprintf("🏅 %s reached %s! 🏅", change.Player.Name, change.To.Name)
	bodyText := fmt.Sprintf("*%s* moved up from *%s* to *%s* with %d points and a %d-%d record.",
		change.Player.Name, change.From.Name, change.To.Name, change.Player.Points, change.Player.Wins, change.Player.Losses)

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", bodyText, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Tier colour: "+change.To.Color, true, false)),
	)
}

// formatLeaderboard creates a Slack message to display the rating leaderboard.
func (s *Notifier) formatLeaderboard(players []club.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Rating Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, player := range players {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s %s\n> *Rating*: %.0f | *Tier*: %s | *Points*: %d | *Record*: %d-%d-%d",
			rank,
			medal(rank),
			player.Name,
			player.Rating,
			player.Tier,
			player.Points,
			player.Wins,
			player.Losses,
			player.Draws,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerProgress shows where a player stands against the next tier.
func (s *Notifier) formatPlayerProgress(player *club.Player, progress tier.Progress) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("📈 Progress for %s", player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Tier*\n%s", progress.Current.Name), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Rating*\n%.0f", player.Rating), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Points*\n%d", player.Points), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Record*\n%d-%d (%.1f%%)", player.Wins, player.Losses, player.WinRate()*100), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	blocks = append(blocks, slack.NewDividerBlock())

	if progress.Next == nil {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*%s* is the top tier. Nothing left to unlock! 👑", progress.Current.Name), false, false),
			nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	nextText := fmt.Sprintf("*Next tier*: %s (%.0f%% there)", progress.Next.Name, progress.Percent)
	if len(progress.Requirements) > 0 {
		nextText += "\n• " + strings.Join(progress.Requirements, "\n• ")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", nextText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player is not found.
func (s *Notifier) formatPlayerNotFound(query string, suggestions []club.PlayerSuggestion) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	}
	if len(suggestions) > 0 {
		names := make([]string, 0, len(suggestions))
		for _, sug := range suggestions {
			names = append(names, "*"+sug.Player.Name+"*")
		}
		hint := "Did you mean " + strings.Join(names, ", ") + "?"
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", hint, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPartnerSuggestions(player *club.Player, suggestions []matchmaking.PartnerSuggestion) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🤝 Even matches for %s", player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	if len(suggestions) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No other players to suggest yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, len(suggestions))
	for i, suggestion := range suggestions {
		lines[i] = fmt.Sprintf("%d. *%s* (%.0f) | %.0f%% chance to win",
			i+1, suggestion.Player.Name, suggestion.Player.Rating, suggestion.WinProbability*100)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchProposal formats the match proposal message
func (s *Notifier) formatMatchProposal(request *matchmaking.MatchRequest, proposal *matchmaking.MatchProposal) slack.Message {
	headerBlock := slack.NewHeaderBlock(
		slack.NewTextBlockObject("plain_text", "🎾 Match Proposal", true, false),
	)

	dateText := fmt.Sprintf("📅 Date: %s\n⏰ Time: %s - %s\n🎯 Format: %s",
		proposal.Date,
		proposal.StartTime,
		proposal.EndTime,
		formatName(proposal.Format),
	)
	dateBlock := slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", dateText, true, false), nil, nil)

	teamsText := fmt.Sprintf("*Team 1*: %s\n*Team 2*: %s\n_Team 1 win chance: %.0f%%_",
		joinPlayers(proposal.TeamAssignments.Team1),
		joinPlayers(proposal.TeamAssignments.Team2),
		proposal.WinProbability*100,
	)
	teamsBlock := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", teamsText, false, false), nil, nil)

	bookingText := fmt.Sprintf("📞 *%s* is responsible for booking the court.", proposal.BookingResponsibleName)
	bookingBlock := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", bookingText, false, false), nil, nil)

	footerBlock := slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Requested by %s • Request ID: %s", request.RequesterName, request.ID), true, false),
	)

	return slack.NewBlockMessage(headerBlock, dateBlock, slack.NewDividerBlock(), teamsBlock, bookingBlock, footerBlock)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func formatName(f rating.GameFormat) string {
	words := strings.Split(string(f), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// teamName joins player names, falling back to the raw IDs when the players
// were not resolved.
func teamName(players []club.Player, ids []string) string {
	if len(players) == 0 {
		return strings.Join(ids, " & ")
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return strings.Join(names, " & ")
}

func joinPlayers(players []matchmaking.Player) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = fmt.Sprintf("%s (%.0f)", p.Name, p.Rating)
	}
	return strings.Join(names, " & ")
}
