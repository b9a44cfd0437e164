package analysis

import (
	"bytes"
	"encoding/json"
	"time"
)

// Analysis is the persisted result of analysing one video for one user.
type Analysis struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"-"`
	YouTubeURL string    `json:"youtube_url"`
	Title      string    `json:"title"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	KeyPoints  []string  `json:"key_points"`
	MindMap    MindMap   `json:"mind_map"`
	StudyNotes string    `json:"study_notes"`
	AudioURL   string    `json:"audio_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Artifacts are the study outputs derived from a transcript.
type Artifacts struct {
	Summary    string
	KeyPoints  []string
	MindMap    MindMap
	StudyNotes string
}

// MindMap is a JSON object tree: {"topic": ..., "children": [{"title": ..., "children": [...]}]}.
// It is kept as raw JSON so model output round-trips unchanged.
type MindMap json.RawMessage

var (
	// PlaceholderMindMap replaces model output that is not a JSON object.
	PlaceholderMindMap = MindMap(`{"topic":"Video","children":[{"title":"Overview"},{"title":"Details"}]}`)
	// OfflineMindMap is produced when no model is configured.
	OfflineMindMap = MindMap(`{"topic":"Video","children":[{"title":"Point A"},{"title":"Point B"}]}`)
	emptyMindMap   = MindMap(`{}`)
)

// ParseMindMap accepts s only when it is a JSON object.
func ParseMindMap(s string) (MindMap, error) {
	raw := bytes.TrimSpace([]byte(s))
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, ErrArtifactParse
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, ErrArtifactParse
	}
	return MindMap(buf.Bytes()), nil
}

func (m MindMap) IsEmpty() bool {
	return len(bytes.TrimSpace(m)) == 0 || bytes.Equal(bytes.TrimSpace(m), emptyMindMap)
}

func (m MindMap) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(m)) == 0 {
		return emptyMindMap, nil
	}
	return m, nil
}

func (m *MindMap) UnmarshalJSON(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

// String returns the JSON text stored in the database.
func (m MindMap) String() string {
	if len(bytes.TrimSpace(m)) == 0 {
		return string(emptyMindMap)
	}
	return string(m)
}
