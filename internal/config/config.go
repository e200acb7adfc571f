package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	// csv.timezone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/isaacthefallenapple/sniester/internal/csvsched"
	appLog "github.com/isaacthefallenapple/sniester/internal/log"
	"github.com/isaacthefallenapple/sniester/internal/model"
	"github.com/isaacthefallenapple/sniester/internal/txtsched"
)

// NOTE: every field has a default matching the 2024/2025 timetables, so
// both converters run without a config file.

const dateLayout = "2006-01-02"

// CSVConfig configures the timetable grid converter.
type CSVConfig struct {
	// StartDate is festival day 1 (YYYY-MM-DD); every row is anchored to it.
	StartDate string `yaml:"start_date" json:"start_date"`

	// Days is the festival length used for the date window check.
	Days int `yaml:"days" json:"days"`

	// RolloverHour: slot hours before it belong to the next day. 0 turns
	// the overnight rule off; nil means the default.
	RolloverHour *int `yaml:"rollover_hour,omitempty" json:"rollover_hour,omitempty"`

	// Timezone is an IANA zone name. Empty keeps timestamps floating
	// (written without an offset).
	Timezone string `yaml:"timezone" json:"timezone"`

	// PreserveCase disables upper-casing of band and venue names.
	PreserveCase bool `yaml:"preserve_case" json:"preserve_case"`

	// EndSlot is "previous" or "current"; see csvsched.EndSlot.
	EndSlot string `yaml:"end_slot" json:"end_slot"`
}

// TextConfig configures the daily lineup converter.
type TextConfig struct {
	Year  int `yaml:"year" json:"year"`
	Month int `yaml:"month" json:"month"`

	// RolloverHour: clock values before it belong to the next day. 0 turns
	// the overnight rule off; nil means the default.
	RolloverHour *int `yaml:"rollover_hour,omitempty" json:"rollover_hour,omitempty"`

	// UTCOffset is written into every timestamp, e.g. "+02:00".
	UTCOffset string `yaml:"utc_offset" json:"utc_offset"`
}

// Config is the top-level configuration shared by both converters.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Strict turns window findings (events ending before they start or
	// outside the festival dates) into a failed run.
	Strict bool `yaml:"strict" json:"strict"`

	CSV  CSVConfig  `yaml:"csv" json:"csv"`
	Text TextConfig `yaml:"text" json:"text"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Strict:   false,
		CSV: CSVConfig{
			StartDate:    "2025-05-23",
			Days:         3,
			RolloverHour: intPtr(12),
			EndSlot:      string(csvsched.EndPrevious),
		},
		Text: TextConfig{
			Year:         2024,
			Month:        5,
			RolloverHour: intPtr(13),
			UTCOffset:    "+02:00",
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partial
// configs still behave like the built-in defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()

	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}

	if c.CSV.StartDate == "" {
		c.CSV.StartDate = d.CSV.StartDate
	}
	if c.CSV.Days <= 0 {
		c.CSV.Days = d.CSV.Days
	}
	if c.CSV.RolloverHour == nil {
		c.CSV.RolloverHour = d.CSV.RolloverHour
	}
	if c.CSV.EndSlot == "" {
		c.CSV.EndSlot = d.CSV.EndSlot
	}

	if c.Text.Year <= 0 {
		c.Text.Year = d.Text.Year
	}
	if c.Text.Month <= 0 {
		c.Text.Month = d.Text.Month
	}
	if c.Text.RolloverHour == nil {
		c.Text.RolloverHour = d.Text.RolloverHour
	}
	if c.Text.UTCOffset == "" {
		c.Text.UTCOffset = d.Text.UTCOffset
	}
}

// Load reads configuration from the given YAML path.
//
// Behavior:
//   - An empty path returns the defaults.
//   - Otherwise the file must exist; it is unmarshalled and normalized.
//     Unknown keys are rejected so typos do not silently fall back to
//     defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	if _, err := cfg.CSVOptions(); err != nil {
		return nil, err
	}
	if _, err := cfg.TextOptions(); err != nil {
		return nil, err
	}
	if _, err := appLog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// ApplyLogLevel configures the global logger from c.LogLevel.
func (c *Config) ApplyLogLevel() error {
	l, err := appLog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	appLog.SetLevel(l)
	return nil
}

// CSVOptions converts the csv section into parser options.
func (c *Config) CSVOptions() (csvsched.Options, error) {
	loc := time.UTC
	if c.CSV.Timezone != "" {
		l, err := time.LoadLocation(c.CSV.Timezone)
		if err != nil {
			return csvsched.Options{}, fmt.Errorf("config: csv.timezone: %w", err)
		}
		loc = l
	}

	base, err := time.ParseInLocation(dateLayout, c.CSV.StartDate, loc)
	if err != nil {
		return csvsched.Options{}, fmt.Errorf("config: csv.start_date: %w", err)
	}
	rollover, err := hour("csv.rollover_hour", c.CSV.RolloverHour)
	if err != nil {
		return csvsched.Options{}, err
	}

	end := csvsched.EndSlot(c.CSV.EndSlot)
	switch end {
	case csvsched.EndPrevious, csvsched.EndCurrent:
	default:
		return csvsched.Options{}, fmt.Errorf("config: csv.end_slot: unknown value %q", c.CSV.EndSlot)
	}

	return csvsched.Options{
		BaseDate:     base,
		RolloverHour: rollover,
		Uppercase:    !c.CSV.PreserveCase,
		EndSlot:      end,
	}, nil
}

// CSVLayout is the timestamp layout for csv output: floating unless a
// timezone is configured.
func (c *Config) CSVLayout() string {
	if c.CSV.Timezone == "" {
		return model.LayoutFloating
	}
	return model.LayoutOffset
}

// TextOptions converts the text section into parser options.
func (c *Config) TextOptions() (txtsched.Options, error) {
	if c.Text.Month < 1 || c.Text.Month > 12 {
		return txtsched.Options{}, fmt.Errorf("config: text.month: %d is not a month", c.Text.Month)
	}
	rollover, err := hour("text.rollover_hour", c.Text.RolloverHour)
	if err != nil {
		return txtsched.Options{}, err
	}
	loc, err := parseOffset(c.Text.UTCOffset)
	if err != nil {
		return txtsched.Options{}, fmt.Errorf("config: text.utc_offset: %w", err)
	}

	return txtsched.Options{
		Year:         c.Text.Year,
		Month:        time.Month(c.Text.Month),
		RolloverHour: rollover,
		Location:     loc,
	}, nil
}

// hour dereferences an optional hour of the day; nil reads as 0.
func hour(key string, h *int) (int, error) {
	if h == nil {
		return 0, nil
	}
	if *h < 0 || *h > 23 {
		return 0, fmt.Errorf("config: %s: %d is not an hour of the day", key, *h)
	}
	return *h, nil
}

func intPtr(v int) *int { return &v }

// parseOffset turns "+02:00" into a fixed zone.
func parseOffset(s string) (*time.Location, error) {
	t, err := time.Parse("-07:00", s)
	if err != nil {
		return nil, err
	}
	_, offset := t.Zone()
	return time.FixedZone("", offset), nil
}
