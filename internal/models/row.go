package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Row is one ranked leaderboard row: the fixed rank/model/model_url
// triple plus a task-dependent set of metric columns. Column values
// are formatted score strings or the "-" sentinel, never null or
// omitted; within one result set every row exposes the same column
// set.
//
// On the wire the columns are flattened alongside the fixed keys:
//
//	{"rank": 1, "model": "...", "model_url": "...", "pass@1": "66.7", ...}
type Row struct {
	Rank     int
	Model    string
	ModelURL string
	Columns  map[string]string
}

// reserved keys that never belong to the metric column set.
const (
	rowKeyRank     = "rank"
	rowKeyModel    = "model"
	rowKeyModelURL = "model_url"
)

// ColumnCopy returns a copy of the metric columns, leaving out the
// rank/model/model_url triple. Consolidated artifacts store exactly
// this map under the (model, combination) key pair.
func (r Row) ColumnCopy() map[string]string {
	out := make(map[string]string, len(r.Columns))
	for k, v := range r.Columns {
		out[k] = v
	}
	return out
}

// MarshalJSON flattens the metric columns next to the fixed keys.
func (r Row) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Columns)+3)
	for k, v := range r.Columns {
		switch k {
		case rowKeyRank, rowKeyModel, rowKeyModelURL:
			return nil, fmt.Errorf("metric column %q collides with a reserved row key", k)
		}
		flat[k] = v
	}
	flat[rowKeyRank] = r.Rank
	flat[rowKeyModel] = r.Model
	flat[rowKeyModelURL] = r.ModelURL
	return json.Marshal(flat)
}

// UnmarshalJSON splits the fixed keys back out and gathers every other
// key into Columns. Numeric column values (from hand-edited artifacts)
// are re-rendered as strings.
func (r *Row) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	*r = Row{Columns: make(map[string]string, len(flat))}
	for k, raw := range flat {
		switch k {
		case rowKeyRank:
			if err := json.Unmarshal(raw, &r.Rank); err != nil {
				return fmt.Errorf("row rank: %w", err)
			}
		case rowKeyModel:
			if err := json.Unmarshal(raw, &r.Model); err != nil {
				return fmt.Errorf("row model: %w", err)
			}
		case rowKeyModelURL:
			if err := json.Unmarshal(raw, &r.ModelURL); err != nil {
				return fmt.Errorf("row model_url: %w", err)
			}
		default:
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				r.Columns[k] = s
				continue
			}
			var f float64
			if err := json.Unmarshal(raw, &f); err == nil {
				r.Columns[k] = strconv.FormatFloat(f, 'f', -1, 64)
				continue
			}
			return fmt.Errorf("row column %q: unsupported value %s", k, raw)
		}
	}
	return nil
}
