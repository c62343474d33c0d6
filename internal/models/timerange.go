package models

import (
	"fmt"
	"time"
)

type TimeRange string

const (
	Range7d     TimeRange = "7d"
	Range30d    TimeRange = "30d"
	RangeCustom TimeRange = "custom"
)

const dateLayout = "2006-01-02"

type CustomRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (cr CustomRange) Validate() error {
	start, err := time.Parse(dateLayout, cr.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", cr.Start, err)
	}
	end, err := time.Parse(dateLayout, cr.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", cr.End, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s before start date %s", cr.End, cr.Start)
	}
	return nil
}

// Selection is the active time-range choice. Custom is set only while
// Range is RangeCustom; selecting a fixed window clears it.
type Selection struct {
	Range  TimeRange    `json:"range"`
	Custom *CustomRange `json:"custom,omitempty"`
}

func NewSelection(r TimeRange) Selection {
	return Selection{Range: r}
}

// SetRange switches the selection. Fixed windows and custom ranges are
// mutually exclusive: any stored custom pair is dropped when a fixed
// window is chosen.
func (s *Selection) SetRange(r TimeRange, custom *CustomRange) error {
	switch r {
	case Range7d, Range30d:
		s.Range = r
		s.Custom = nil
		return nil
	case RangeCustom:
		if custom == nil {
			return fmt.Errorf("custom range requires start and end dates")
		}
		if err := custom.Validate(); err != nil {
			return err
		}
		s.Range = RangeCustom
		s.Custom = custom
		return nil
	default:
		return fmt.Errorf("unknown time range %q", r)
	}
}

// ParseSelection builds a Selection from query parameters. An empty
// range defaults to the trailing 7-day window.
func ParseSelection(rangeStr, start, end string) (Selection, error) {
	if rangeStr == "" {
		rangeStr = string(Range7d)
	}
	var s Selection
	var custom *CustomRange
	if TimeRange(rangeStr) == RangeCustom {
		custom = &CustomRange{Start: start, End: end}
	}
	if err := s.SetRange(TimeRange(rangeStr), custom); err != nil {
		return Selection{}, err
	}
	return s, nil
}

// Key is the cache/snapshot key for the selection.
func (s Selection) Key() string {
	if s.Range == RangeCustom && s.Custom != nil {
		return string(RangeCustom) + ":" + s.Custom.Start + ":" + s.Custom.End
	}
	return string(s.Range)
}
