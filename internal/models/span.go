package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Span is a duration carried on the wire as "hh:mm:ss" ("d.hh:mm:ss" past a day)
type Span struct {
	time.Duration
}

// SpanOf wraps d
func SpanOf(d time.Duration) Span {
	return Span{Duration: d}
}

// Seconds returns the whole seconds in the span
func (s Span) Seconds() int64 {
	return int64(s.Duration / time.Second)
}

func (s Span) String() string {
	total := s.Seconds()
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if days > 0 {
		return fmt.Sprintf("%s%d.%02d:%02d:%02d", sign, days, h, m, sec)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, sec)
}

func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts "hh:mm:ss", "d.hh:mm:ss" or a number of seconds
func (s *Span) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		s.Duration = 0
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid span %s: %w", data, err)
		}
		s.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseSpan(raw)
	if err != nil {
		return err
	}
	s.Duration = d
	return nil
}

// ParseSpan parses the "[d.]hh:mm:ss[.fff]" form
func ParseSpan(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid span %q: expected hh:mm:ss", raw)
	}

	var days int64
	hoursPart := parts[0]
	if dayStr, rest, ok := strings.Cut(hoursPart, "."); ok {
		d, err := strconv.ParseInt(dayStr, 10, 64)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("invalid span %q: bad days", raw)
		}
		days = d
		hoursPart = rest
	}

	hours, err := strconv.ParseInt(hoursPart, 10, 64)
	if err != nil || hours < 0 || hours > 23 && days > 0 {
		return 0, fmt.Errorf("invalid span %q: bad hours", raw)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid span %q: bad minutes", raw)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("invalid span %q: bad seconds", raw)
	}

	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return total, nil
}
