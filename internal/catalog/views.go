package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRateLimited is surfaced as a plain client error; no dedicated
// status code exists for it.
var ErrRateLimited = errors.New("rate limit exceeded")

const (
	viewRateWindow = time.Minute
	viewRateMax    = 10
	viewDedupe     = time.Hour
)

// RecordView applies the view-counting rules and reports whether an
// increment happened. Fingerprinted viewers are rate limited to ten
// events a minute and deduplicated per chapter for an hour; a duplicate
// is a silent no-op. Anonymous viewers (empty fingerprint) skip both
// checks. Accepted events bump the series counter with an
// atomic in-store increment, never read-modify-write.
func (r *Repo) RecordView(ctx context.Context, chapterID, seriesID, viewerHash string) (bool, error) {
	now := time.Now()

	if viewerHash != "" {
		var recent int
		err := r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM chapter_views
			WHERE viewer_hash = ? AND viewed_at > ?
		`, viewerHash, fmtTime(now.Add(-viewRateWindow))).Scan(&recent)
		if err != nil {
			return false, fmt.Errorf("count recent views: %w", err)
		}
		if recent >= viewRateMax {
			return false, ErrRateLimited
		}

		var one int
		err = r.DB.QueryRowContext(ctx, `
			SELECT 1 FROM chapter_views
			WHERE chapter_id = ? AND viewer_hash = ? AND viewed_at > ?
			LIMIT 1
		`, chapterID, viewerHash, fmtTime(now.Add(-viewDedupe))).Scan(&one)
		if err == nil {
			return false, nil
		}
		if err != sql.ErrNoRows {
			return false, fmt.Errorf("check duplicate view: %w", err)
		}
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO chapter_views (id, chapter_id, series_id, viewer_hash, viewed_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), chapterID, seriesID, nullable(viewerHash), fmtTime(now))
	if err != nil {
		return false, fmt.Errorf("insert view: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		UPDATE series SET total_views = total_views + 1 WHERE id = ?
	`, seriesID)
	if err != nil {
		return false, fmt.Errorf("increment views: %w", err)
	}
	return true, nil
}
