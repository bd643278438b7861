// Package ingest normalizes uploaded history exports into import
// records. Exports differ by source: key names vary, timestamps come
// as RFC 3339 strings or unix numbers, and the record list is either
// the document root or nested one level down.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// Accepted key aliases, checked in order.
var (
	titleKeys = []string{"title", "name", "titleUrl"}
	timeKeys  = []string{"time", "time_accessed", "timestamp", "date"}
)

// watchedPrefix is stripped from YouTube takeout titles.
const watchedPrefix = "Watched "

// ParseHistory decodes a history export into import records. A
// document that holds no recognizable record list is rejected as a
// whole; no partial processing happens. Records without a resolvable
// timestamp import with HasTime false.
func ParseHistory(data []byte) ([]commands.ImportedRecord, error) {
	raw, err := recordList(data)
	if err != nil {
		return nil, err
	}

	records := make([]commands.ImportedRecord, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("record %d is not an object", i))
		}
		title := stringField(obj, titleKeys)
		if title == "" {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("record %d has no title field", i))
		}
		title = strings.TrimPrefix(title, watchedPrefix)

		rec := commands.ImportedRecord{Title: title}
		if at, ok := timeField(obj, timeKeys); ok {
			rec.OccurredAt = at
			rec.HasTime = true
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, pkgerrors.NewValidationError("import contains no records")
	}
	return records, nil
}

// recordList finds the record array: either the document root or the
// first array value of a root object.
func recordList(data []byte) ([]interface{}, error) {
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, pkgerrors.NewValidationError("import is not valid JSON").WithCause(err)
	}
	switch v := root.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		for _, value := range v {
			if list, ok := value.([]interface{}); ok {
				return list, nil
			}
		}
	}
	return nil, pkgerrors.NewValidationError("unrecognized import structure: expected a list of records")
}

func stringField(obj map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func timeField(obj map[string]interface{}, keys []string) (time.Time, bool) {
	for _, key := range keys {
		value, present := obj[key]
		if !present {
			continue
		}
		switch v := value.(type) {
		case string:
			if at, ok := parseTimeString(v); ok {
				return at, true
			}
		case float64:
			return unixTime(v), true
		}
	}
	return time.Time{}, false
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if at, err := time.Parse(layout, s); err == nil {
			return at, true
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return unixTime(n), true
	}
	return time.Time{}, false
}

// unixTime interprets a numeric timestamp by magnitude: seconds,
// milliseconds or microseconds since the epoch.
func unixTime(n float64) time.Time {
	switch {
	case n > 1e14:
		return time.UnixMicro(int64(n)).UTC()
	case n > 1e11:
		return time.UnixMilli(int64(n)).UTC()
	default:
		return time.Unix(int64(n), 0).UTC()
	}
}
