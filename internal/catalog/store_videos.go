package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// UpsertVideo inserts a video or replaces every scraped field of an existing
// row. created_at is preserved on update.
func (s *Store) UpsertVideo(ctx context.Context, v *Video) error {
	if v == nil || strings.TrimSpace(v.ID) == "" {
		return errors.New("video id is required")
	}
	args, err := videoArgs(v)
	if err != nil {
		return err
	}
	now := timestamp()
	args = append(args, now, now)
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO videos (`+videoColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(video_id) DO UPDATE SET
             title = excluded.title,
             upload_date = excluded.upload_date,
             duration = excluded.duration,
             view_count = excluded.view_count,
             description = excluded.description,
             thumbnail_url = excluded.thumbnail_url,
             youtube_tags = excluded.youtube_tags,
             validated_tags = excluded.validated_tags,
             unvalidated_tags = excluded.unvalidated_tags,
             updated_at = excluded.updated_at`,
		args...,
	); err != nil {
		return fmt.Errorf("upsert video %s: %w", v.ID, err)
	}
	return nil
}

// InsertVideoIfMissing inserts v unless a row with the same id exists. It
// reports whether a row was written.
func (s *Store) InsertVideoIfMissing(ctx context.Context, v *Video) (bool, error) {
	if v == nil || strings.TrimSpace(v.ID) == "" {
		return false, errors.New("video id is required")
	}
	args, err := videoArgs(v)
	if err != nil {
		return false, err
	}
	now := timestamp()
	args = append(args, now, now)
	res, err := s.execWithRetry(
		ctx,
		`INSERT OR IGNORE INTO videos (`+videoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("insert video %s: %w", v.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func videoArgs(v *Video) ([]any, error) {
	original, err := encodeTags(v.OriginalTags)
	if err != nil {
		return nil, fmt.Errorf("encode youtube tags: %w", err)
	}
	validated, err := encodeTags(v.ValidatedTags)
	if err != nil {
		return nil, fmt.Errorf("encode validated tags: %w", err)
	}
	unvalidated, err := encodeTags(v.UnvalidatedTags)
	if err != nil {
		return nil, fmt.Errorf("encode unvalidated tags: %w", err)
	}
	return []any{
		v.ID,
		v.Title,
		nullableString(v.UploadDate),
		nullableString(v.Duration),
		v.ViewCount,
		nullableString(v.Description),
		nullableString(v.ThumbnailURL),
		original,
		validated,
		unvalidated,
	}, nil
}

// GetVideo fetches a video by id.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE video_id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// VideoIDs returns the set of catalogued video ids.
func (s *Store) VideoIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT video_id FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("list video ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// ListVideos returns every video ordered by upload date, oldest first.
func (s *Store) ListVideos(ctx context.Context) ([]*Video, error) {
	return s.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY upload_date, video_id`)
}

// VideosByIDs returns the requested videos in upload order. Unknown ids are
// ignored.
func (s *Store) VideosByIDs(ctx context.Context, ids []string) ([]*Video, error) {
	if len(ids) == 0 {
		return []*Video{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryVideos(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE video_id IN (`+makePlaceholders(len(ids))+`) ORDER BY upload_date, video_id`,
		args...,
	)
}

// FindVideosByTitle returns videos whose title contains every fragment
// (ASCII case-insensitive), ordered by title ignoring case.
func (s *Store) FindVideosByTitle(ctx context.Context, fragments ...string) ([]*Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos`
	var (
		clauses []string
		args    []any
	)
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		clauses = append(clauses, `title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(fragment)+"%")
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY title COLLATE NOCASE, video_id`
	return s.queryVideos(ctx, query, args...)
}

// UpdateVideoTags rewrites the validated/unvalidated split of one video.
func (s *Store) UpdateVideoTags(ctx context.Context, id string, validated, unvalidated []string) error {
	validatedJSON, err := encodeTags(validated)
	if err != nil {
		return fmt.Errorf("encode validated tags: %w", err)
	}
	unvalidatedJSON, err := encodeTags(unvalidated)
	if err != nil {
		return fmt.Errorf("encode unvalidated tags: %w", err)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET validated_tags = ?, unvalidated_tags = ?, updated_at = ? WHERE video_id = ?`,
		validatedJSON,
		unvalidatedJSON,
		timestamp(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update video tags %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) queryVideos(ctx context.Context, query string, args ...any) ([]*Video, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := []*Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
