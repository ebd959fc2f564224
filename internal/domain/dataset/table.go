package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Cell is one key/count pair inside a Row.
type Cell struct {
	Key   string
	Value int
}

// Row is one named series of a Table, e.g. a platform and its monthly counts.
type Row struct {
	Key   string
	Cells []Cell
}

// Value returns the count stored under key, or 0 when absent.
func (r Row) Value(key string) int {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Value
		}
	}
	return 0
}

// Table is an ordered mapping<string, mapping<string, count>>.
type Table struct {
	Rows []Row
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Keys returns row keys in file order.
func (t Table) Keys() []string {
	keys := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		keys[i] = r.Key
	}
	return keys
}

// UnmarshalJSON decodes a nested object keeping key order. Row values that
// are not objects and cell values that are not numbers are skipped.
func (t *Table) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var rows []Row
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: data %s: %w", ErrMalformed, key, err)
		}
		cells, ok, err := decodeCells(raw)
		if err != nil {
			return fmt.Errorf("data %s: %w", key, err)
		}
		if !ok {
			continue
		}
		rows = append(rows, Row{Key: key, Cells: cells})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	t.Rows = rows
	return nil
}

// MarshalJSON writes the table back as nested objects in row order.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(r.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(":{")
		for j, c := range r.Cells {
			if j > 0 {
				buf.WriteByte(',')
			}
			ck, err := json.Marshal(c.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(ck)
			fmt.Fprintf(&buf, ":%d", c.Value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeCells(raw json.RawMessage) ([]Cell, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, false, err
	}
	var cells []Cell
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, false, err
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		cells = append(cells, Cell{Key: key, Value: toCount(n)})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, false, err
	}
	return cells, true, nil
}

func toCount(n json.Number) int {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
