// Package dataset holds the typed, decoded form of a trends dataset snapshot.
//
// The wire shape is
//
//	{
//	  "graphs": [{"title": "...", "sources": [...], "data": {...}}],
//	  "<Platform>": {"trending_topics": [{"topic": "...", "count": 1}]},
//	  ...
//	}
//
// Every nested field is optional. Key order of platforms and data tables is
// preserved because downstream ranking breaks ties by encounter order.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// graphsKey is the only reserved top-level key; every other key holding an
// object with trending_topics is a platform.
const graphsKey = "graphs"

// ErrMalformed reports a dataset that is not a JSON object of the expected shape.
var ErrMalformed = errors.New("malformed dataset")

// TopicEntry is one {topic, count, type?} record.
type TopicEntry struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"`
}

// Source is a feed inside a graph with its topic list.
type Source struct {
	Source string       `json:"source"`
	Topics []TopicEntry `json:"topics,omitempty"`
}

// Graph is one dashboard panel's data.
type Graph struct {
	Title   string   `json:"title"`
	Sources []Source `json:"sources,omitempty"`
	Data    Table    `json:"data,omitempty"`
}

// Platform carries a platform's cross-platform trending topic list.
type Platform struct {
	Name           string
	TrendingTopics []TopicEntry
}

// Dataset is one immutable snapshot.
type Dataset struct {
	Graphs    []Graph
	Platforms []Platform
}

// Graph returns the first graph with the given title.
func (d *Dataset) Graph(title string) (Graph, bool) {
	if d == nil {
		return Graph{}, false
	}
	for _, g := range d.Graphs {
		if g.Title == title {
			return g, true
		}
	}
	return Graph{}, false
}

// Decode reads a dataset from r.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// UnmarshalJSON decodes the top-level object, keeping platform order.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var out Dataset
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformed, key, err)
		}

		if key == graphsKey {
			if isNull(raw) {
				continue
			}
			if err := json.Unmarshal(raw, &out.Graphs); err != nil {
				return fmt.Errorf("%w: graphs: %w", ErrMalformed, err)
			}
			continue
		}

		var p struct {
			TrendingTopics *[]TopicEntry `json:"trending_topics"`
		}
		// Top-level keys that are not platform objects are ignored.
		if err := json.Unmarshal(raw, &p); err != nil || p.TrendingTopics == nil {
			continue
		}
		out.Platforms = append(out.Platforms, Platform{Name: key, TrendingTopics: *p.TrendingTopics})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*d = out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformed, want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", ErrMalformed, tok)
	}
	return key, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
