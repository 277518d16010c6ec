package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"zlbots/internal/common"
	"zlbots/internal/tally"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type CounterOptions struct {
	Title            string
	Token            string
	ChannelId        string
	SummaryChannelId string
	// Cron expression for the reset, empty to never reset
	ResetSchedule string
	Location      *time.Location
	// How many of the most active users to list in the summary
	TopUsers int
}

// Counter tallies the messages posted in one channel and mirrors
// the tally into a single summary message that it keeps editing
type Counter struct {
	options   CounterOptions
	store     tally.Store
	messenger Messenger
	scheduler *cron.Cron
	now       func() time.Time
	ctx       context.Context

	mu    sync.Mutex
	tally tally.Tally

	// Single flight summary refresh
	refreshGuard common.Guard
	dirty        atomic.Bool
}

func NewCounter(options CounterOptions, store tally.Store) (*Counter, error) {

	if options.ChannelId == "" {
		return nil, errors.New("counter needs a channel to watch")
	}
	if options.SummaryChannelId == "" {
		options.SummaryChannelId = options.ChannelId
	}
	if options.Location == nil {
		options.Location = time.Local
	}

	counter := &Counter{
		options:   options,
		store:     store,
		scheduler: cron.New(cron.WithLocation(options.Location)),
		now:       time.Now,
		ctx:       context.Background(),
	}
	if options.ResetSchedule != "" {
		if _, err := counter.scheduler.AddFunc(options.ResetSchedule, func() { counter.Reset(counter.ctx) }); err != nil {
			return nil, fmt.Errorf("invalid reset schedule %q: %w", options.ResetSchedule, err)
		}
	}
	return counter, nil
}

func (counter *Counter) Run(ctx context.Context) error {

	discord, err := Connect(counter.options.Token, discordgo.IntentsGuilds|discordgo.IntentsGuildMessages)
	if err != nil {
		return err
	}
	discord.AddHandler(counter.HandleMessage)
	discord.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		log.Info().Str("user", ready.User.String()).Msg("Bot connected")
	})

	if err := counter.Start(ctx, sessionMessenger{discord}); err != nil {
		return err
	}
	defer counter.Stop()

	return serve(ctx, discord)
}

// Load the persisted tally, publish the summary and schedule the resets
func (counter *Counter) Start(ctx context.Context, messenger Messenger) error {

	loaded, err := counter.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("could not load tally: %w", err)
	}
	if loaded.Since.IsZero() {
		loaded.Since = counter.now()
	}

	counter.mu.Lock()
	counter.tally = loaded
	counter.messenger = messenger
	counter.ctx = ctx
	counter.mu.Unlock()
	log.Info().Int("count", loaded.Count).Str("channel", counter.options.ChannelId).Msg("Counter loaded")

	counter.refresh(ctx)
	counter.scheduler.Start()
	if counter.options.ResetSchedule != "" {
		log.Info().Str("schedule", counter.options.ResetSchedule).Msg("Daily reset scheduled")
	}
	return nil
}

func (counter *Counter) Stop() error {
	<-counter.scheduler.Stop().Done()
	return counter.store.Close()
}

// Gateway handler for new messages
func (counter *Counter) HandleMessage(s *discordgo.Session, message *discordgo.MessageCreate) {

	if message.ChannelID != counter.options.ChannelId {
		return
	}
	if message.Author == nil || message.Author.Bot {
		return
	}

	event := tally.Event{
		Kind:     tally.KindMessage,
		At:       message.Timestamp,
		UserId:   message.Author.ID,
		Username: message.Author.Username,
	}
	if event.At.IsZero() {
		event.At = counter.now()
	}
	if err := counter.Record(counter.ctx, event); err != nil {
		log.Error().Err(err).Msg("Could not store message event")
	}
	counter.refresh(counter.ctx)
}

// Count one message. The tally changes even if storing the event fails
func (counter *Counter) Record(ctx context.Context, event tally.Event) error {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return counter.commitLocked(ctx, event)
}

// Zero the tally and refresh the summary
func (counter *Counter) Reset(ctx context.Context) {

	counter.mu.Lock()
	previous := counter.tally.Count
	err := counter.commitLocked(ctx, tally.Event{Kind: tally.KindReset, At: counter.now(), PreviousCount: previous})
	counter.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Could not store reset event")
	}
	log.Info().Int("previous", previous).Msg("Counter reset")
	counter.refresh(ctx)
}

func (counter *Counter) Snapshot() tally.Tally {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return counter.tally.Clone()
}

func (counter *Counter) commitLocked(ctx context.Context, event tally.Event) error {
	counter.tally.Apply(event)
	return counter.store.Commit(ctx, event, counter.tally.Clone())
}

// Bring the summary message up to date. When a refresh is already in
// flight this only marks the summary as stale, and the refresh in
// flight publishes again before it finishes
func (counter *Counter) refresh(ctx context.Context) {
	counter.dirty.Store(true)
	for {
		if !counter.refreshGuard.TryAcquire() {
			return
		}
		for counter.dirty.Swap(false) {
			counter.publish(ctx)
		}
		counter.refreshGuard.Release()
		if !counter.dirty.Load() {
			return
		}
	}
}

func (counter *Counter) publish(ctx context.Context) {

	counter.mu.Lock()
	messenger := counter.messenger
	counter.mu.Unlock()
	if messenger == nil {
		return
	}

	current := counter.Snapshot()
	channelId := counter.options.SummaryChannelId
	response := SummaryEmbed(counter.options.Title, counter.options.ChannelId, current, counter.options.TopUsers, counter.now().In(counter.options.Location))

	if current.SummaryMessageId != "" {
		_, err := response.Edit(channelId, current.SummaryMessageId, messenger)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("message", current.SummaryMessageId).Msg("Could not edit summary, sending a new one")
	}

	message, err := response.Send(channelId, messenger)
	if err != nil {
		log.Error().Err(err).Str("channel", channelId).Msg("Could not send summary")
		return
	}

	counter.mu.Lock()
	err = counter.commitLocked(ctx, tally.Event{Kind: tally.KindSummary, At: counter.now(), MessageId: message.ID})
	counter.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("Could not store summary message id")
	}
}
