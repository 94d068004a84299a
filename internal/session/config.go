package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ademuri/streaming-history/internal/analysis"
	"github.com/ademuri/streaming-history/internal/calendar"
	"github.com/ademuri/streaming-history/internal/history"
	"github.com/ademuri/streaming-history/internal/lineup"
)

// Pipeline modes.
const (
	ModeHistory = "history"
	ModeLineup  = "lineup"
)

// Config selects what a Run computes. One pipeline serves both the plain
// history views and the festival lineup views.
type Config struct {
	Mode string `validate:"oneof=history lineup"`

	// MinMinutes is the strict lower bound on an artist's summed minutes.
	// Negative disables the threshold.
	MinMinutes float64

	// Range is applied before the threshold. RangePreset, when set, is
	// resolved against the latest listen and replaces Range.
	Range       history.DateRange
	RangePreset string `validate:"omitempty,oneof=all last30 lastyear"`

	// Artist selects the profile and heatmap subject. Default: every artist.
	Artist string

	// Year is the ISO year of the year view and heatmap. Zero selects the
	// most listened year.
	Year int `validate:"gte=0,lte=9999"`

	OffsetHours float64 `validate:"gte=-48,lte=48"`
	TopN        int     `validate:"gte=1"`
	MinPlayMs   int64   `validate:"gte=0"`

	Buckets calendar.Scheme

	// Lineup is required in lineup mode.
	Lineup lineup.Lineup `validate:"required_if=Mode lineup"`

	Ingest history.IngestOptions
}

// DefaultConfig returns the presets of a mode: history mode drops plays of
// ten seconds or less and keeps artists above five minutes, lineup mode keeps
// every play and artists above one minute.
func DefaultConfig(mode string) Config {
	cfg := Config{
		Mode:   mode,
		Artist: history.AllArtists,
		TopN:   analysis.DefaultTopN,
		Ingest: history.IngestOptions{Markers: history.DefaultMarkers, Dedupe: true},
	}
	switch mode {
	case ModeLineup:
		cfg.MinMinutes = lineup.DefaultMinMinutes
		cfg.Buckets = calendar.LineupScheme
	default:
		cfg.MinMinutes = 5
		cfg.MinPlayMs = 10000
		cfg.Buckets = calendar.HistoryScheme
	}
	return cfg
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the config fields and the bucket scheme.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		messages := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			messages[i] = translateError(fe)
		}
		return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
	}
	if err := c.Buckets.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func translateError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Field(), strings.Replace(fe.Param(), " ", " is ", 1))
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
