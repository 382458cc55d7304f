package catalog

import (
	"context"
	"fmt"
)

// DuplicateVideoLinks reports videos linked to more than one distinct trip.
func (s *Store) DuplicateVideoLinks(ctx context.Context) ([]DuplicateLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT vv.video_id, COALESCE(v.title, ''), COUNT(DISTINCT vv.trip_id) AS trip_count
         FROM video_versions vv
         LEFT JOIN videos v ON v.video_id = vv.video_id
         GROUP BY vv.video_id
         HAVING trip_count > 1
         ORDER BY trip_count DESC, vv.video_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("duplicate links: %w", err)
	}
	defer rows.Close()

	links := []DuplicateLink{}
	for rows.Next() {
		var link DuplicateLink
		if err := rows.Scan(&link.VideoID, &link.Title, &link.TripCount); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// IncompleteTrips reports trips whose member count differs from the largest
// recorded total_parts.
func (s *Store) IncompleteTrips(ctx context.Context) ([]PartMismatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.trip_id, t.trip_name,
                COUNT(vv.part_number) AS actual_parts,
                COALESCE(MAX(vv.total_parts), 0) AS expected_parts
         FROM trips t
         LEFT JOIN video_versions vv ON t.trip_id = vv.trip_id
         GROUP BY t.trip_id
         HAVING actual_parts != expected_parts
         ORDER BY t.trip_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("incomplete trips: %w", err)
	}
	defer rows.Close()

	mismatches := []PartMismatch{}
	for rows.Next() {
		var m PartMismatch
		if err := rows.Scan(&m.TripID, &m.TripName, &m.ActualParts, &m.ExpectedParts); err != nil {
			return nil, err
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, rows.Err()
}
