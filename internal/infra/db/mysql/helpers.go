package mysql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

const errDuplicateEntry = 1062

// encodeKeyPoints always yields a JSON array, never null.
func encodeKeyPoints(points []string) (string, error) {
	if points == nil {
		points = []string{}
	}
	b, err := json.Marshal(points)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeKeyPoints(raw string) ([]string, error) {
	points := []string{}
	if strings.TrimSpace(raw) == "" {
		return points, nil
	}
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, fmt.Errorf("decode key_points: %w", err)
	}
	if points == nil {
		points = []string{}
	}
	return points, nil
}

func decodeMindMap(raw string) analysis.MindMap {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return analysis.MindMap(raw)
}

// isDuplicate recognises unique-key violations from MySQL and SQLite.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == errDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// timeValue scans DATETIME columns whether the driver returns time.Time or text.
type timeValue struct{ t *time.Time }

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
}

func (v timeValue) Scan(src any) error {
	switch s := src.(type) {
	case time.Time:
		*v.t = s.UTC()
		return nil
	case []byte:
		return v.parse(string(s))
	case string:
		return v.parse(s)
	case nil:
		*v.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (v timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*v.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}
