package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"zlbots/internal/common"

	"github.com/joho/godotenv"
)

const (
	DefaultNotificationChannelId = "1443332719869431828"
	DefaultCheckInterval         = 30 * time.Second
	DefaultSeenCapacity          = 50
	DefaultSendRate              = "5/5s"
	DefaultResetSchedule         = "0 0 * * *"
	DefaultCounterLogFile        = "messages.log"
	DefaultTallyFile             = "tally.json"
)

// Config holds the configuration of all the bots.
// Each bot validates only the part it needs
type Config struct {
	// Discord
	Token string

	// Notifier
	ApiUrl                string
	NotificationChannelId string
	CheckInterval         time.Duration
	SeenCapacity          int
	SendRate              []common.Restriction
	ApiRate               []common.Restriction

	// Counters
	CounterChannelId        string
	CounterSummaryChannelId string
	CounterResetSchedule    string
	CounterLogFile          string
	TallyFile               string

	// Ambient
	Location  *time.Location
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, after loading
// a .env file from the working directory if there is one
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("could not load .env file: %w", err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from the provided lookup function,
// which has the signature of os.LookupEnv
func FromEnv(lookupEnv func(string) (string, bool)) (*Config, error) {

	get := func(key string) string {
		value, _ := lookupEnv(key)
		return strings.TrimSpace(value)
	}

	config := &Config{
		Token: get("TOKEN"),

		ApiUrl:                get("API_URL"),
		NotificationChannelId: DefaultNotificationChannelId,
		CheckInterval:         DefaultCheckInterval,
		SeenCapacity:          DefaultSeenCapacity,

		CounterChannelId:        get("COUNTER_CHANNEL_ID"),
		CounterSummaryChannelId: get("COUNTER_SUMMARY_CHANNEL_ID"),
		CounterResetSchedule:    DefaultResetSchedule,
		CounterLogFile:          DefaultCounterLogFile,
		TallyFile:               DefaultTallyFile,

		Location:  time.Local,
		LogLevel:  "info",
		LogFormat: "console",
	}

	if config.Token == "" {
		config.Token = get("DISCORD_TOKEN")
	}
	if channel := get("NOTIFICATION_CHANNEL_ID"); channel != "" {
		config.NotificationChannelId = channel
	}
	if interval := get("CHECK_INTERVAL"); interval != "" {
		parsed, err := parseInterval(interval)
		if err != nil {
			return nil, fmt.Errorf("CHECK_INTERVAL: %w", err)
		}
		config.CheckInterval = parsed
	}
	if capacity := get("SEEN_CAPACITY"); capacity != "" {
		parsed, err := strconv.Atoi(capacity)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("SEEN_CAPACITY must be a positive integer, got %q", capacity)
		}
		config.SeenCapacity = parsed
	}

	sendRate := get("SEND_RATE")
	if sendRate == "" {
		sendRate = DefaultSendRate
	}
	restrictions, err := parseRestrictions(sendRate)
	if err != nil {
		return nil, fmt.Errorf("SEND_RATE: %w", err)
	}
	config.SendRate = restrictions
	if apiRate := get("API_RATE"); apiRate != "" {
		restrictions, err := parseRestrictions(apiRate)
		if err != nil {
			return nil, fmt.Errorf("API_RATE: %w", err)
		}
		config.ApiRate = restrictions
	}

	if config.CounterSummaryChannelId == "" {
		config.CounterSummaryChannelId = config.CounterChannelId
	}
	// An explicitly empty schedule disables the daily reset
	if schedule, ok := lookupEnv("COUNTER_RESET_SCHEDULE"); ok {
		config.CounterResetSchedule = strings.TrimSpace(schedule)
	}
	if file := get("COUNTER_LOG_FILE"); file != "" {
		config.CounterLogFile = file
	}
	if file := get("TALLY_FILE"); file != "" {
		config.TallyFile = file
	}

	if timezone := get("TIMEZONE"); timezone != "" {
		location, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE: %w", err)
		}
		config.Location = location
	}
	if level := get("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if format := get("LOG_FORMAT"); format != "" {
		config.LogFormat = format
	}

	return config, nil
}

func (config *Config) ValidateNotifier() error {
	var errs []error
	if config.Token == "" {
		errs = append(errs, errors.New("TOKEN is required"))
	}
	if config.ApiUrl == "" {
		errs = append(errs, errors.New("API_URL is required"))
	}
	if config.NotificationChannelId == "" {
		errs = append(errs, errors.New("NOTIFICATION_CHANNEL_ID is required"))
	}
	return errors.Join(errs...)
}

func (config *Config) ValidateCounter() error {
	var errs []error
	if config.Token == "" {
		errs = append(errs, errors.New("TOKEN is required"))
	}
	if config.CounterChannelId == "" {
		errs = append(errs, errors.New("COUNTER_CHANNEL_ID is required"))
	}
	return errors.Join(errs...)
}

// Accept plain milliseconds, as the interval was historically configured,
// or a Go duration string
func parseInterval(text string) (time.Duration, error) {
	var interval time.Duration
	if ms, err := strconv.Atoi(text); err == nil {
		interval = time.Duration(ms) * time.Millisecond
	} else if parsed, err := time.ParseDuration(text); err == nil {
		interval = parsed
	} else {
		return 0, fmt.Errorf("%q is neither milliseconds nor a duration", text)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return interval, nil
}

// A comma separated list of restrictions, for example "5/5s,100/1h"
func parseRestrictions(text string) ([]common.Restriction, error) {
	var restrictions []common.Restriction
	for _, part := range strings.Split(text, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		restriction, err := common.ParseRestriction(part)
		if err != nil {
			return nil, err
		}
		restrictions = append(restrictions, restriction)
	}
	return restrictions, nil
}
