package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"zlbots/internal/tally"

	"github.com/bwmarrin/discordgo"
)

type sentEmbed struct {
	channelId string
	messageId string
	embed     *discordgo.MessageEmbed
}

type fakeMessenger struct {
	mu       sync.Mutex
	channels map[string]bool
	sends    []sentEmbed
	edits    []sentEmbed
	sendErr  error
	editErr  error
	nextId   int
}

func newFakeMessenger(channels ...string) *fakeMessenger {
	messenger := &fakeMessenger{channels: map[string]bool{}}
	for _, channel := range channels {
		messenger.channels[channel] = true
	}
	return messenger
}

func (m *fakeMessenger) Channel(channelId string) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.channels[channelId] {
		return nil, fmt.Errorf("unknown channel %s", channelId)
	}
	return &discordgo.Channel{ID: channelId}, nil
}

func (m *fakeMessenger) ChannelMessageSendEmbed(channelId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.nextId++
	id := fmt.Sprintf("message-%d", m.nextId)
	m.sends = append(m.sends, sentEmbed{channelId: channelId, messageId: id, embed: embed})
	return &discordgo.Message{ID: id, ChannelID: channelId}, nil
}

func (m *fakeMessenger) ChannelMessageEditEmbed(channelId string, messageId string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return nil, m.editErr
	}
	m.edits = append(m.edits, sentEmbed{channelId: channelId, messageId: messageId, embed: embed})
	return &discordgo.Message{ID: messageId, ChannelID: channelId}, nil
}

func (m *fakeMessenger) Sends() []sentEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmbed(nil), m.sends...)
}

func (m *fakeMessenger) Edits() []sentEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmbed(nil), m.edits...)
}

func (m *fakeMessenger) setEditErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editErr = err
}

type memoryStore struct {
	mu      sync.Mutex
	initial tally.Tally
	loadErr error
	events  []tally.Event
	last    tally.Tally
	closed  bool
}

func (s *memoryStore) Load(ctx context.Context) (tally.Tally, error) {
	return s.initial, s.loadErr
}

func (s *memoryStore) Commit(ctx context.Context, event tally.Event, current tally.Tally) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("closed")
	}
	s.events = append(s.events, event)
	s.last = current
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memoryStore) Events() []tally.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tally.Event(nil), s.events...)
}
