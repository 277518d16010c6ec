package bot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"zlbots/internal/common"
	"zlbots/internal/config"
	"zlbots/internal/serverapi"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServerSource provides the servers currently active
type ServerSource interface {
	GetActiveServers(ctx context.Context) ([]serverapi.ServerRecord, error)
}

// Notifier polls the server API and announces every server it
// has not seen before in a single channel
type Notifier struct {
	token     string
	channelId string
	api       ServerSource
	seen      *common.SeenSet
	executor  *common.TimedExecutor
	limiter   *common.RateLimiter
	messenger Messenger
	location  *time.Location
	now       func() time.Time
	startOnce sync.Once
	started   atomic.Bool
	// Closed once the polling loop has returned
	polling chan struct{}
}

func NewNotifier(config *config.Config, api ServerSource) *Notifier {

	notifier := &Notifier{
		token:     config.Token,
		channelId: config.NotificationChannelId,
		api:       api,
		seen:      common.NewSeenSet(config.SeenCapacity),
		limiter:   common.NewRateLimiter(config.SendRate),
		location:  config.Location,
		now:       time.Now,
		polling:   make(chan struct{}),
	}
	if notifier.location == nil {
		notifier.location = time.Local
	}
	notifier.executor = common.NewTimedExecutor("api-checker", config.CheckInterval, notifier.checkAPI)
	return notifier
}

func (notifier *Notifier) Run(ctx context.Context) error {

	discord, err := Connect(notifier.token, discordgo.IntentsGuilds|discordgo.IntentsGuildMessages)
	if err != nil {
		return err
	}
	notifier.messenger = sessionMessenger{discord}

	discord.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		log.Info().Str("user", ready.User.String()).Msg("Bot connected")
		notifier.start(ctx)
	})

	err = serve(ctx, discord)
	notifier.wait()
	return err
}

// Start polling. Only the first call has an effect, so that
// reconnections do not start a second poller
func (notifier *Notifier) start(ctx context.Context) {
	notifier.startOnce.Do(func() {
		notifier.started.Store(true)
		go func() {
			defer close(notifier.polling)
			notifier.executor.Run(ctx)
		}()
		log.Info().Str("channel", notifier.channelId).Msg("API monitor active")
	})
}

// Block until the polling loop and its cycle in flight are done
func (notifier *Notifier) wait() {
	if notifier.started.Load() {
		<-notifier.polling
	}
}

// One poll cycle
func (notifier *Notifier) checkAPI(ctx context.Context) {

	logger := log.With().Str("cycle", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	servers, err := notifier.api.GetActiveServers(ctx)
	if errors.Is(err, serverapi.ErrUnavailable) {
		logger.Info().Msg("API not available or without active servers")
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Could not query the API")
		return
	}

	notifier.processNewServers(ctx, servers)
}

// Announce the servers not seen before, in the order received.
// Returns how many were new
func (notifier *Notifier) processNewServers(ctx context.Context, servers []serverapi.ServerRecord) int {

	logger := zerolog.Ctx(ctx)
	novel := 0
	for _, server := range servers {
		serverId := string(server.GameInstanceId)
		if serverId == "" {
			logger.Warn().Msg("Ignoring server without game instance id")
			continue
		}

		// Avoid announcing the same server more than once
		if notifier.seen.Contains(serverId) {
			continue
		}

		logger.Info().Str("server", serverId).Msg("New server detected")
		_, evicted, didEvict := notifier.seen.Add(serverId)
		if didEvict {
			logger.Debug().Str("server", evicted).Msg("Forgetting oldest server")
		}
		novel++
		notifier.sendNotification(ctx, server)
	}
	return novel
}

// Deliver one notification. Failures are logged and the notification is lost
func (notifier *Notifier) sendNotification(ctx context.Context, server serverapi.ServerRecord) {

	logger := zerolog.Ctx(ctx)

	if notifier.messenger == nil {
		logger.Error().Msg("Not connected to discord, notification dropped")
		return
	}
	channel, err := notifier.messenger.Channel(notifier.channelId)
	if err != nil || channel == nil {
		logger.Error().Err(err).Str("channel", notifier.channelId).Msg("Notification channel not found")
		return
	}

	if err := notifier.limiter.Wait(ctx); err != nil {
		logger.Error().Err(err).Msg("Notification dropped while waiting for the rate limiter")
		return
	}

	response := NotificationEmbed(server, notifier.now().In(notifier.location))
	if _, err := response.Send(channel.ID, notifier.messenger); err != nil {
		logger.Error().Err(err).Str("server", string(server.GameInstanceId)).Msg("Could not send notification")
		return
	}
	logger.Info().Str("name", server.AnimalData.DisplayName.OrNA()).Msg("Notification sent")
}
