package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/videoai/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, user_id, youtube_url, title, transcript, summary, key_points, mind_map, study_notes, audio_url, created_at`

// Save inserts a new record and sets its ID.
func (r *AnalysisRepository) Save(ctx context.Context, a *analysis.Analysis) error {
	const q = `
INSERT INTO video_analyses
  (user_id, youtube_url, title, transcript, summary, key_points, mind_map, study_notes, audio_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id;
`
	keyPoints, err := encodeKeyPoints(a.KeyPoints)
	if err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	err = r.db.QueryRowContext(ctx, q,
		a.OwnerID, a.YouTubeURL, a.Title, a.Transcript, a.Summary,
		keyPoints, a.MindMap.String(), a.StudyNotes, a.AudioURL, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, ownerID, id int64) (*analysis.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM video_analyses WHERE id=$1 AND user_id=$2 LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	return a, err
}

func (r *AnalysisRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*analysis.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM video_analyses WHERE user_id=$1 ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*analysis.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*analysis.Analysis, error) {
	var (
		a         analysis.Analysis
		keyPoints []byte
		mindMap   []byte
		created   time.Time
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.YouTubeURL, &a.Title, &a.Transcript, &a.Summary,
		&keyPoints, &mindMap, &a.StudyNotes, &a.AudioURL, &created)
	if err != nil {
		return nil, err
	}
	if a.KeyPoints, err = decodeKeyPoints(keyPoints); err != nil {
		return nil, err
	}
	a.MindMap = decodeMindMap(mindMap)
	a.CreatedAt = created.UTC()
	return &a, nil
}
