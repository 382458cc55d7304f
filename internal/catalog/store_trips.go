package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateTrip inserts trip and its parts in a single transaction and returns
// the new trip id. Part rows inherit the new id.
func (s *Store) CreateTrip(ctx context.Context, trip *Trip, parts []TripPart) (int64, error) {
	if trip == nil || strings.TrimSpace(trip.Name) == "" {
		return 0, errors.New("trip name is required")
	}
	seriesType := trip.SeriesType
	if seriesType == "" {
		seriesType = SeriesTypeTrip
	}

	var tripID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := timestamp()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO trips (trip_name, start_date, end_date, description, series_type, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			trip.Name,
			nullableString(trip.StartDate),
			nullableString(trip.EndDate),
			nullableString(trip.Description),
			seriesType,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}
		tripID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		for _, part := range parts {
			if err := insertPart(ctx, tx, tripID, part, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	trip.ID = tripID
	trip.SeriesType = seriesType
	return tripID, nil
}

func insertPart(ctx context.Context, tx *sql.Tx, tripID int64, part TripPart, now string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO video_versions (trip_id, version_type, part_number, total_parts, video_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		tripID,
		part.VersionType,
		part.PartNumber,
		part.TotalParts,
		part.VideoID,
		now,
	); err != nil {
		return fmt.Errorf("insert part %d (video %s): %w", part.PartNumber, part.VideoID, err)
	}
	return nil
}

// AddPart links one more video to an existing trip.
func (s *Store) AddPart(ctx context.Context, part TripPart) error {
	if part.TripID == 0 {
		return errors.New("trip id is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertPart(ctx, tx, part.TripID, part, timestamp())
	})
}

// SetTotalParts writes total to every part row of a trip and returns the
// number of rows touched.
func (s *Store) SetTotalParts(ctx context.Context, tripID int64, total int) (int64, error) {
	res, err := s.execWithRetry(ctx, `UPDATE video_versions SET total_parts = ? WHERE trip_id = ?`, total, tripID)
	if err != nil {
		return 0, fmt.Errorf("set total parts: %w", err)
	}
	return res.RowsAffected()
}

// SetSeriesType updates the series/trip classification of a trip.
func (s *Store) SetSeriesType(ctx context.Context, tripID int64, seriesType SeriesType) error {
	res, err := s.execWithRetry(ctx, `UPDATE trips SET series_type = ? WHERE trip_id = ?`, seriesType, tripID)
	if err != nil {
		return fmt.Errorf("set series type: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("trip %d: %w", tripID, ErrNotFound)
	}
	return nil
}

// GetTrip fetches a trip by id.
func (s *Store) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE trip_id = ?`, id)
	trip, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

// FindTripsByName returns trips whose name contains fragment, exact
// (case-insensitive) matches first.
func (s *Store) FindTripsByName(ctx context.Context, fragment string) ([]*Trip, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return []*Trip{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips
         WHERE trip_name LIKE ? ESCAPE '\'
         ORDER BY CASE WHEN lower(trip_name) = lower(?) THEN 0 ELSE 1 END, trip_id`,
		"%"+escapeLike(fragment)+"%",
		fragment,
	)
	if err != nil {
		return nil, fmt.Errorf("find trips: %w", err)
	}
	defer rows.Close()

	trips := []*Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// ListTrips returns every trip with its member counts, oldest first.
func (s *Store) ListTrips(ctx context.Context) ([]TripSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.trip_id, t.trip_name, t.start_date, t.end_date, t.description, t.series_type, t.created_at,
                COUNT(vv.version_id), COALESCE(MAX(vv.total_parts), 0)
         FROM trips t
         LEFT JOIN video_versions vv ON vv.trip_id = t.trip_id
         GROUP BY t.trip_id
         ORDER BY t.start_date, t.trip_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	summaries := []TripSummary{}
	for rows.Next() {
		var partCount, totalParts int
		trip, err := scanTrip(rows, &partCount, &totalParts)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TripSummary{Trip: *trip, PartCount: partCount, TotalParts: totalParts})
	}
	return summaries, rows.Err()
}

// PartsForTrip returns a trip's parts ordered by part number.
func (s *Store) PartsForTrip(ctx context.Context, tripID int64) ([]TripPart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT vv.version_id, vv.trip_id, vv.video_id, vv.version_type, vv.part_number, vv.total_parts,
                COALESCE(v.title, ''), COALESCE(v.upload_date, '')
         FROM video_versions vv
         LEFT JOIN videos v ON v.video_id = vv.video_id
         WHERE vv.trip_id = ?
         ORDER BY vv.part_number`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	parts := []TripPart{}
	for rows.Next() {
		var (
			part        TripPart
			versionType string
		)
		if err := rows.Scan(
			&part.ID,
			&part.TripID,
			&part.VideoID,
			&versionType,
			&part.PartNumber,
			&part.TotalParts,
			&part.Title,
			&part.UploadDate,
		); err != nil {
			return nil, err
		}
		part.VersionType = VersionType(versionType)
		parts = append(parts, part)
	}
	return parts, rows.Err()
}

// TripIDsForVideos maps each of the given video ids that is linked to a trip
// onto the ids of those trips.
func (s *Store) TripIDsForVideos(ctx context.Context, videoIDs []string) (map[string][]int64, error) {
	links := make(map[string][]int64)
	if len(videoIDs) == 0 {
		return links, nil
	}
	args := make([]any, len(videoIDs))
	for i, id := range videoIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, trip_id FROM video_versions
         WHERE video_id IN (`+makePlaceholders(len(videoIDs))+`)
         ORDER BY video_id, trip_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("trip links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			videoID string
			tripID  int64
		)
		if err := rows.Scan(&videoID, &tripID); err != nil {
			return nil, err
		}
		links[videoID] = append(links[videoID], tripID)
	}
	return links, rows.Err()
}
