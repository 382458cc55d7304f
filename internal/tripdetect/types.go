package tripdetect

import (
	"fmt"
	"strings"
)

// PatternKind names the explicit part marker that matched a title.
type PatternKind string

const (
	PatternPartOf      PatternKind = "part_of"
	PatternEpisode     PatternKind = "episode"
	PatternDay         PatternKind = "day"
	PatternNight       PatternKind = "night"
	PatternBracketPart PatternKind = "bracket_part"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PatternKind) UnmarshalText(text []byte) error {
	switch v := PatternKind(strings.TrimSpace(string(text))); v {
	case PatternPartOf, PatternEpisode, PatternDay, PatternNight, PatternBracketPart, "":
		*k = v
		return nil
	default:
		return fmt.Errorf("unknown pattern kind %q", string(text))
	}
}

// Confidence ranks how sure the detector is that a group is one trip.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(text []byte) error {
	switch v := Confidence(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		*c = v
		return nil
	default:
		return fmt.Errorf("unknown confidence %q", string(text))
	}
}

// GroupType separates marker-based groups from heuristic ones.
type GroupType string

const (
	GroupExplicit  GroupType = "explicit_series"
	GroupPotential GroupType = "potential_series"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GroupType) UnmarshalText(text []byte) error {
	switch v := GroupType(strings.TrimSpace(string(text))); v {
	case GroupExplicit, GroupPotential:
		*g = v
		return nil
	default:
		return fmt.Errorf("unknown group type %q", string(text))
	}
}

// Video is the detector's view of a catalog entry.
type Video struct {
	ID         string
	Title      string
	UploadDate string
}

// Member is one video inside a candidate group.
type Member struct {
	VideoID    string `json:"video_id" validate:"required"`
	Title      string `json:"title"`
	UploadDate string `json:"upload_date" validate:"required"`
	BaseTitle  string `json:"base_title,omitempty"`
	PartNumber *int   `json:"part_number,omitempty" validate:"omitempty,gt=0"`
	TripScore  *int   `json:"trip_score,omitempty"`
}

// Group is a candidate trip or series awaiting review.
type Group struct {
	BaseTitle    string      `json:"base_title" validate:"required"`
	Type         GroupType   `json:"type" validate:"required"`
	Confidence   Confidence  `json:"confidence" validate:"required"`
	Pattern      PatternKind `json:"pattern,omitempty"`
	Videos       []Member    `json:"videos" validate:"min=1,dive"`
	DateSpanDays *int        `json:"date_span_days,omitempty"`
}

// Summary counts what a detection pass produced.
type Summary struct {
	Scanned         int `json:"scanned"`
	ExplicitSeries  int `json:"explicit_series"`
	PotentialSeries int `json:"potential_series"`
	VideosInSeries  int `json:"videos_in_series"`
	Rejected        int `json:"rejected"`
}

// Report is the full output of a detection pass.
type Report struct {
	Groups  []Group `json:"groups"`
	Summary Summary `json:"summary"`
}

func intPtr(v int) *int { return &v }
