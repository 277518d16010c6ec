package tally

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// LogStore keeps an append only text log with one line per event:
//
//	<RFC3339 time>\t<kind>\t<user id>\t<username>\t<value>
//
// where value is the count after a message, the count before a reset,
// or the message id of a summary
type LogStore struct {
	path string
	mu   sync.Mutex
	file *os.File
}

func OpenLogStore(path string) (*LogStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", path, err)
	}
	return &LogStore{path: path, file: file}, nil
}

// Replay the log. Only the messages after the last reset count
func (store *LogStore) Load(ctx context.Context) (Tally, error) {

	file, err := os.Open(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return Tally{}, nil
	}
	if err != nil {
		return Tally{}, err
	}
	defer file.Close()

	var tally Tally
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return Tally{}, err
		}
		event, err := parseLine(scanner.Text())
		if err != nil {
			log.Warn().Err(err).Int("line", line).Str("file", store.path).Msg("Skipping unreadable log line")
			continue
		}
		if tally.Since.IsZero() {
			tally.Since = event.At
		}
		tally.Apply(event)
	}
	if err := scanner.Err(); err != nil {
		return Tally{}, err
	}
	return tally, nil
}

func (store *LogStore) Commit(ctx context.Context, event Event, tally Tally) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.file == nil {
		return errors.New("log file closed")
	}
	_, err := store.file.WriteString(formatLine(event, tally))
	return err
}

func (store *LogStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.file == nil {
		return nil
	}
	err := store.file.Close()
	store.file = nil
	return err
}

func formatLine(event Event, tally Tally) string {
	var value string
	switch event.Kind {
	case KindMessage:
		value = strconv.Itoa(tally.Count)
	case KindReset:
		value = strconv.Itoa(event.PreviousCount)
	case KindSummary:
		value = event.MessageId
	}
	return strings.Join([]string{
		event.At.UTC().Format(time.RFC3339),
		string(event.Kind),
		clean(event.UserId),
		clean(event.Username),
		value,
	}, "\t") + "\n"
}

func parseLine(text string) (Event, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 5 {
		return Event{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	at, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Event{}, err
	}
	event := Event{Kind: Kind(fields[1]), At: at, UserId: fields[2], Username: fields[3]}
	switch event.Kind {
	case KindMessage:
	case KindReset:
		if previous, err := strconv.Atoi(fields[4]); err == nil {
			event.PreviousCount = previous
		}
	case KindSummary:
		event.MessageId = fields[4]
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", fields[1])
	}
	return event, nil
}

// Tabs and newlines would break the line format
func clean(text string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(text)
}
