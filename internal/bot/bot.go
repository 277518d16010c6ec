package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Create a discord session with the provided intents. Library logs
// are forwarded to the global logger
func Connect(token string, intents discordgo.Intent) (*discordgo.Session, error) {

	discordgo.Logger = discordLogger
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("could not create discord session: %w", err)
	}
	discord.LogLevel = discordgo.LogWarning
	discord.Identify.Intents = intents

	discord.AddHandler(func(s *discordgo.Session, disconnect *discordgo.Disconnect) {
		log.Warn().Msg("Disconnected from the gateway")
	})
	discord.AddHandler(func(s *discordgo.Session, resumed *discordgo.Resumed) {
		log.Info().Msg("Gateway session resumed")
	})

	return discord, nil
}

// Open the session and keep it open until the context is done
func serve(ctx context.Context, discord *discordgo.Session) error {

	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	<-ctx.Done()
	log.Info().Msg("Closing discord session")
	return nil
}

func discordLogger(msgL, caller int, format string, a ...interface{}) {
	event := log.Debug()
	switch msgL {
	case discordgo.LogError:
		event = log.Error()
	case discordgo.LogWarning:
		event = log.Warn()
	case discordgo.LogInformational:
		event = log.Info()
	}
	event.Str("source", "discordgo").Msg(fmt.Sprintf(format, a...))
}
