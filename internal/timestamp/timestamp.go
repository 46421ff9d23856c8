// Package timestamp converts the backend's field-based UTC timestamps into
// timezone-aware time.Time values and back.
//
// The zone used for conversion is process wide and defaults to UTC. It is
// validated when it is set, so conversion itself cannot fail:
//
//	if err := timestamp.SetDefaultTimezone("Europe/Amsterdam"); err != nil {
//	    log.Fatal(err)
//	}
//	local := timestamp.ToIndex(raw)
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tejusbharadwaj/histseries/internal/models"
)

var ErrUnknownTimezone = errors.New("unknown timezone")

var (
	mu            sync.RWMutex
	defaultName   = "UTC"
	defaultCodec  = &Codec{loc: time.UTC}
	rejectedZones = map[string]bool{"": true, "local": true}
)

// Codec converts between models.RawTime and time.Time in a fixed location.
type Codec struct {
	loc *time.Location
}

// NewCodec returns a Codec for the named IANA timezone.
func NewCodec(name string) (*Codec, error) {
	loc, err := loadLocation(name)
	if err != nil {
		return nil, err
	}
	return &Codec{loc: loc}, nil
}

// Location is the zone timestamps are converted into.
func (c *Codec) Location() *time.Location {
	return c.loc
}

// ToLocal interprets raw as UTC and returns it in the codec's zone.
func (c *Codec) ToLocal(raw models.RawTime) time.Time {
	return time.Date(
		raw.Year,
		time.Month(raw.Month),
		raw.Day,
		raw.Hour,
		raw.Minute,
		raw.Second,
		raw.Millisecond*int(time.Millisecond),
		time.UTC,
	).In(c.loc)
}

// FromTime returns the UTC fields of t, truncated to milliseconds.
func FromTime(t time.Time) models.RawTime {
	u := t.UTC()
	return models.RawTime{
		Year:        u.Year(),
		Month:       int(u.Month()),
		Day:         u.Day(),
		Hour:        u.Hour(),
		Minute:      u.Minute(),
		Second:      u.Second(),
		Millisecond: u.Nanosecond() / int(time.Millisecond),
	}
}

// SetDefaultTimezone changes the zone used by ToIndex and Default.
func SetDefaultTimezone(name string) error {
	loc, err := loadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	defaultName = name
	defaultCodec = &Codec{loc: loc}
	return nil
}

// DefaultTimezone returns the name of the process-wide zone.
func DefaultTimezone() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultName
}

// Default returns the codec for the process-wide zone.
func Default() *Codec {
	mu.RLock()
	defer mu.RUnlock()
	return defaultCodec
}

// ToIndex converts raw with the process-wide zone.
func ToIndex(raw models.RawTime) time.Time {
	return Default().ToLocal(raw)
}

func loadLocation(name string) (*time.Location, error) {
	if rejectedZones[strings.ToLower(strings.TrimSpace(name))] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}
