package bot

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"zlbots/internal/serverapi"
	"zlbots/internal/tally"

	"github.com/bwmarrin/discordgo"
)

// Green for server announcements
const notificationColor int = 0x00FF00

// Use "teal" color for the counters
const summaryColor int = 0x008080

const joinLink = "https://chillihub1.github.io/chillihub-joiner/?placeId=%s&gameInstanceId=%s"

// Month, day, year, hour and minute with a 12 hour clock
const footerTimeLayout = "01/02/2006, 03:04 PM"

func FormatMoneyPerSecond(value float64) string {

	switch {
	case value >= 1e9:
		return "💰 " + oneDecimal(value/1e9) + "B/s"
	case value >= 1e6:
		return "💰 " + oneDecimal(value/1e6) + "M/s"
	case value >= 1e3:
		return "💰 " + oneDecimal(value/1e3) + "K/s"
	default:
		return fmt.Sprintf("💰 %s/s", strconv.FormatFloat(value, 'f', -1, 64))
	}
}

// One decimal place, with exact ties rounded up: 1.25 gives 1.3
func oneDecimal(value float64) string {
	// 128 bits hold the product of a float64 and 10 exactly
	scaled := new(big.Float).SetPrec(128).SetFloat64(value)
	scaled.Mul(scaled, big.NewFloat(10))

	tenths, _ := scaled.Int(nil)
	fraction := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetInt(tenths))
	if fraction.Cmp(big.NewFloat(0.5)) >= 0 {
		tenths.Add(tenths, big.NewInt(1))
	}

	whole, digit := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return whole.String() + "." + digit.String()
}

func NotificationEmbed(server serverapi.ServerRecord, now time.Time) ResponseEmbed {

	animal := server.AnimalData
	placeId := string(server.PlaceId)
	gameInstanceId := string(server.GameInstanceId)

	embed := discordgo.MessageEmbed{
		Title:     "🐾 **Zl | Finder**",
		Color:     notificationColor,
		Timestamp: now.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "made by zl hub • " + now.Format(footerTimeLayout)},
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "**Name**", Value: animal.DisplayName.OrNA(), Inline: false},
		{Name: "**Money per sec**", Value: FormatMoneyPerSecond(float64(animal.Value)), Inline: true},
		{Name: "**Generation**", Value: "📊 " + animal.Generation.OrNA(), Inline: true},
		{Name: "**Rarity**", Value: "🌟 " + animal.Rarity.OrNA(), Inline: true},
		{Name: "**Job ID**", Value: "```" + gameInstanceId + "```", Inline: false},
		{Name: "**Join Link**", Value: fmt.Sprintf("[Click to Join]("+joinLink+")", placeId, gameInstanceId), Inline: false},
		{Name: "**Join Script (PC)**", Value: JoinScript(placeId, gameInstanceId), Inline: false},
	}
	return ResponseEmbed{embed}
}

// Lua snippet that teleports the local player into the server.
// Identifiers are written as received
func JoinScript(placeId string, gameInstanceId string) string {
	return fmt.Sprintf("```lua\ngame:GetService(\"TeleportService\"):TeleportToPlaceInstance(%s,\"%s\",game.Players.LocalPlayer)\n```", placeId, gameInstanceId)
}

func SummaryEmbed(title string, channelId string, current tally.Tally, topUsers int, now time.Time) ResponseEmbed {

	embed := discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("Messages sent in <#%s>", channelId),
		Color:       summaryColor,
		Timestamp:   now.Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Last update • " + now.Format(footerTimeLayout)},
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "**Messages**",
		Value:  fmt.Sprintf("💬 %d", current.Count),
		Inline: true,
	})
	if !current.Since.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "**Counting since**",
			Value:  fmt.Sprintf("<t:%d:f>", current.Since.Unix()),
			Inline: true,
		})
	}
	if topUsers > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "**Top chatters**",
			Value:  topUsersValue(current.Top(topUsers)),
			Inline: false,
		})
	}
	return ResponseEmbed{embed}
}

func topUsersValue(ranked []tally.RankedUser) string {
	if len(ranked) == 0 {
		return "None"
	}
	lines := make([]string, len(ranked))
	for i, user := range ranked {
		name := user.Username
		if name == "" {
			name = fmt.Sprintf("<@%s>", user.UserId)
		}
		lines[i] = fmt.Sprintf("%d. %s: %d", i+1, name, user.Count)
	}
	return strings.Join(lines, "\n")
}
