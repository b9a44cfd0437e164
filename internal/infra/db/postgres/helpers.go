package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func encodeKeyPoints(points []string) (string, error) {
	if points == nil {
		points = []string{}
	}
	b, err := json.Marshal(points)
	return string(b), err
}

func decodeKeyPoints(raw []byte) ([]string, error) {
	points := []string{}
	if len(raw) == 0 {
		return points, nil
	}
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("decode key_points: %w", err)
	}
	if points == nil {
		points = []string{}
	}
	return points, nil
}

func decodeMindMap(raw []byte) analysis.MindMap {
	if len(raw) == 0 {
		return nil
	}
	return append(analysis.MindMap(nil), raw...)
}
