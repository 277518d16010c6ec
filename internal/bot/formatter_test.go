package bot

import (
	"testing"
	"time"

	"zlbots/internal/serverapi"
	"zlbots/internal/tally"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoneyPerSecond(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{500, "💰 500/s"},
		{1500, "💰 1.5K/s"},
		{2500000, "💰 2.5M/s"},
		{3100000000, "💰 3.1B/s"},
		{0, "💰 0/s"},
		{12.5, "💰 12.5/s"},
		{999, "💰 999/s"},
		{1000, "💰 1.0K/s"},
		{1e6, "💰 1.0M/s"},
		{1e12, "💰 1000.0B/s"},
		{1250, "💰 1.3K/s"},
		{7750, "💰 7.8K/s"},
		{2250000, "💰 2.3M/s"},
		{1149, "💰 1.1K/s"},
		{1949999, "💰 1.9M/s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoneyPerSecond(tt.value))
		})
	}
}

func TestNotificationEmbed(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)
	server := serverapi.ServerRecord{
		GameInstanceId: "6f1c-42",
		PlaceId:        "109983668079237",
		AnimalData:     serverapi.AnimalData{DisplayName: "La Vacca", Value: 1500, Rarity: "Secret"},
	}

	embed := NotificationEmbed(server, now).MessageEmbed

	assert.Equal(t, "🐾 **Zl | Finder**", embed.Title)
	assert.Equal(t, 0x00FF00, embed.Color)
	assert.Equal(t, "2026-10-16T15:04:00Z", embed.Timestamp)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "made by zl hub • 10/16/2026, 03:04 PM", embed.Footer.Text)

	require.Len(t, embed.Fields, 7)
	names := make([]string, len(embed.Fields))
	for i, field := range embed.Fields {
		names[i] = field.Name
	}
	assert.Equal(t, []string{"**Name**", "**Money per sec**", "**Generation**", "**Rarity**", "**Job ID**", "**Join Link**", "**Join Script (PC)**"}, names)

	assert.Equal(t, "La Vacca", embed.Fields[0].Value)
	assert.False(t, embed.Fields[0].Inline)
	assert.Equal(t, "💰 1.5K/s", embed.Fields[1].Value)
	assert.True(t, embed.Fields[1].Inline)
	assert.Equal(t, "📊 N/A", embed.Fields[2].Value)
	assert.True(t, embed.Fields[2].Inline)
	assert.Equal(t, "🌟 Secret", embed.Fields[3].Value)
	assert.True(t, embed.Fields[3].Inline)
	assert.Equal(t, "```6f1c-42```", embed.Fields[4].Value)
	assert.Equal(t, "[Click to Join](https://chillihub1.github.io/chillihub-joiner/?placeId=109983668079237&gameInstanceId=6f1c-42)", embed.Fields[5].Value)
	assert.Equal(t, "```lua\ngame:GetService(\"TeleportService\"):TeleportToPlaceInstance(109983668079237,\"6f1c-42\",game.Players.LocalPlayer)\n```", embed.Fields[6].Value)
}

func TestNotificationEmbed_MissingFields(t *testing.T) {
	embed := NotificationEmbed(serverapi.ServerRecord{GameInstanceId: "x"}, time.Now()).MessageEmbed

	assert.Equal(t, "N/A", embed.Fields[0].Value)
	assert.Equal(t, "💰 0/s", embed.Fields[1].Value)
	assert.Equal(t, "📊 N/A", embed.Fields[2].Value)
	assert.Equal(t, "🌟 N/A", embed.Fields[3].Value)
}

func TestSummaryEmbed(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	since := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	current := tally.Tally{Count: 3, Since: since, Users: map[string]tally.UserTally{
		"1": {Username: "ana", Count: 2},
		"2": {Count: 1},
	}}

	embed := SummaryEmbed("📊 Message Tally", "99", current, 5, now).MessageEmbed

	assert.Equal(t, "📊 Message Tally", embed.Title)
	assert.Equal(t, "Messages sent in <#99>", embed.Description)
	assert.Equal(t, "Last update • 10/16/2026, 09:30 AM", embed.Footer.Text)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "💬 3", embed.Fields[0].Value)
	assert.Equal(t, "<t:1792108800:f>", embed.Fields[1].Value)
	assert.Equal(t, "1. ana: 2\n2. <@2>: 1", embed.Fields[2].Value)

	bare := SummaryEmbed("📊 Message Counter", "99", tally.Tally{}, 0, now).MessageEmbed
	require.Len(t, bare.Fields, 1)
	assert.Equal(t, "💬 0", bare.Fields[0].Value)
}
