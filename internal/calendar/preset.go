package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Clock is the source of "now" for relative presets.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always answers the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

type Preset string

const (
	PresetNone      Preset = ""
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetThisWeek  Preset = "week"
	PresetThisMonth Preset = "month"
	PresetThisYear  Preset = "year"
)

var presetAliases = map[string]Preset{
	"":          PresetNone,
	"today":     PresetToday,
	"hoy":       PresetToday,
	"yesterday": PresetYesterday,
	"ayer":      PresetYesterday,
	"week":      PresetThisWeek,
	"semana":    PresetThisWeek,
	"month":     PresetThisMonth,
	"mes":       PresetThisMonth,
	"year":      PresetThisYear,
	"año":       PresetThisYear,
	"ano":       PresetThisYear,
	"anio":      PresetThisYear,
}

// ParsePreset accepts the English names and their Spanish equivalents.
func ParsePreset(s string) (Preset, error) {
	p, ok := presetAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return PresetNone, fmt.Errorf("unknown date preset %q", s)
	}
	return p, nil
}

// Label is the Spanish name shown in report headers.
func (p Preset) Label() string {
	switch p {
	case PresetToday:
		return "Hoy"
	case PresetYesterday:
		return "Ayer"
	case PresetThisWeek:
		return "Esta semana"
	case PresetThisMonth:
		return "Este mes"
	case PresetThisYear:
		return "Este año"
	default:
		return ""
	}
}

// Range returns the inclusive day range the preset covers relative to now.
// Weeks run Sunday through Saturday.
func (p Preset) Range(now time.Time) (from, to Date, ok bool) {
	today := DateOf(now)
	switch p {
	case PresetToday:
		return today, today, true
	case PresetYesterday:
		y := today.AddDays(-1)
		return y, y, true
	case PresetThisWeek:
		start := today.AddDays(-int(today.Weekday()))
		return start, start.AddDays(6), true
	case PresetThisMonth:
		start := NewDate(today.Year(), today.Month(), 1)
		return start, Date{start.Time.AddDate(0, 1, -1)}, true
	case PresetThisYear:
		return NewDate(today.Year(), time.January, 1), NewDate(today.Year(), time.December, 31), true
	default:
		return Date{}, Date{}, false
	}
}

// Contains reports whether d falls inside the preset as of now. PresetNone
// contains every date.
func (p Preset) Contains(now time.Time, d Date) bool {
	from, to, ok := p.Range(now)
	if !ok {
		return true
	}
	if d.IsZero() {
		return false
	}
	return d.Compare(from) >= 0 && d.Compare(to) <= 0
}
