package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger is the part of the discord session the bots talk to
type Messenger interface {
	Channel(channelId string) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelId string, messageId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type sessionMessenger struct {
	session *discordgo.Session
}

// Look the channel up in the gateway cache first, then ask the REST API
func (m sessionMessenger) Channel(channelId string) (*discordgo.Channel, error) {
	if m.session.State != nil {
		if channel, err := m.session.State.Channel(channelId); err == nil {
			return channel, nil
		}
	}
	return m.session.Channel(channelId)
}

func (m sessionMessenger) ChannelMessageSendEmbed(channelId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return m.session.ChannelMessageSendEmbed(channelId, embed)
}

func (m sessionMessenger) ChannelMessageEditEmbed(channelId string, messageId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return m.session.ChannelMessageEditEmbed(channelId, messageId, embed)
}

type ResponseEmbed struct {
	discordgo.MessageEmbed
}

func (response ResponseEmbed) Send(channelId string, messenger Messenger) (*discordgo.Message, error) {
	return messenger.ChannelMessageSendEmbed(channelId, &response.MessageEmbed)
}

func (response ResponseEmbed) Edit(channelId string, messageId string, messenger Messenger) (*discordgo.Message, error) {
	return messenger.ChannelMessageEditEmbed(channelId, messageId, &response.MessageEmbed)
}
