package acts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// List holds a collection endpoint response. The server answers with either a
// bare JSON array or a paginated {count, next, previous, results} envelope.
type List[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

type pageEnvelope[T any] struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON accepts both list shapes.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty list body")
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = List[T]{Count: len(items), Results: items}
		return nil
	case '{':
		var page pageEnvelope[T]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return err
		}
		if page.Results == nil {
			return fmt.Errorf("list envelope has no results field")
		}
		out := List[T]{Results: page.Results, Count: len(page.Results)}
		if page.Count != nil {
			out.Count = *page.Count
		}
		if page.Next != nil {
			out.Next = *page.Next
		}
		if page.Previous != nil {
			out.Previous = *page.Previous
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("unexpected list body starting with %q", trimmed[0])
	}
}

// HasMore reports whether the server advertised another page.
func (l List[T]) HasMore() bool { return l.Next != "" }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the datetime formats the API emits, with or without a zone.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised value %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
