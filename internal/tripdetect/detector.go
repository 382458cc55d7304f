package tripdetect

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"posawiki/internal/config"
	"posawiki/internal/logging"
)

// Policy holds the detector thresholds.
type Policy struct {
	Keywords              []string
	MinTripScore          int
	ShrinkRatio           float64
	MaxSpanDays           int
	MediumConfidenceScore float64
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default().Detection)
}

// PolicyFromConfig converts the [detection] config section.
func PolicyFromConfig(d config.Detection) Policy {
	return Policy{
		Keywords:              append([]string(nil), d.TripKeywords...),
		MinTripScore:          d.MinTripScore,
		ShrinkRatio:           d.BaseTitleShrinkRatio,
		MaxSpanDays:           d.MaxSpanDays,
		MediumConfidenceScore: d.MediumConfidenceScore,
	}
}

// Detector groups titles into candidate trips.
type Detector struct {
	policy Policy
	logger *slog.Logger
}

// NewDetector builds a detector. A nil logger discards output.
func NewDetector(policy Policy, logger *slog.Logger) *Detector {
	return &Detector{
		policy: policy,
		logger: logging.NewComponentLogger(logger, "tripdetect"),
	}
}

type bucket struct {
	key     string
	base    string
	kind    PatternKind
	members []Member
}

// orderedBuckets keeps groups in first-seen order.
type orderedBuckets struct {
	order []*bucket
	byKey map[string]*bucket
}

func newOrderedBuckets() *orderedBuckets {
	return &orderedBuckets{byKey: make(map[string]*bucket)}
}

func (o *orderedBuckets) add(key, base string, kind PatternKind, m Member) {
	b, ok := o.byKey[key]
	if !ok {
		b = &bucket{key: key, base: base, kind: kind}
		o.byKey[key] = b
		o.order = append(o.order, b)
	}
	b.members = append(b.members, m)
}

// Detect scans videos and returns candidate groups. Explicit series come
// first, then heuristic groups, each in the order their first member appears
// in videos. Each title follows exactly one branch: a title with an explicit
// marker is never scored heuristically.
func (d *Detector) Detect(videos []Video) Report {
	explicit := newOrderedBuckets()
	potential := newOrderedBuckets()

	for _, v := range videos {
		if match, ok := MatchTitle(v.Title); ok {
			explicit.add(match.SeriesKey(), match.BaseTitle, match.Kind, Member{
				VideoID:    v.ID,
				Title:      v.Title,
				UploadDate: v.UploadDate,
				BaseTitle:  match.BaseTitle,
				PartNumber: intPtr(match.PartNumber),
			})
			continue
		}

		score := TripScore(v.Title, d.policy.Keywords)
		base := DeriveBaseTitle(v.Title)
		if base == "" {
			continue
		}
		shrunk := float64(runeLen(base)) < float64(runeLen(v.Title))*d.policy.ShrinkRatio
		if score < d.policy.MinTripScore && !shrunk {
			continue
		}
		potential.add(base, base, "", Member{
			VideoID:    v.ID,
			Title:      v.Title,
			UploadDate: v.UploadDate,
			BaseTitle:  base,
			TripScore:  intPtr(score),
		})
	}

	report := Report{Groups: []Group{}}
	report.Summary.Scanned = len(videos)

	for _, b := range explicit.order {
		if len(b.members) < 2 {
			continue
		}
		members := append([]Member(nil), b.members...)
		sort.SliceStable(members, func(i, j int) bool {
			return *members[i].PartNumber < *members[j].PartNumber
		})
		report.Groups = append(report.Groups, Group{
			BaseTitle:  b.base,
			Type:       GroupExplicit,
			Confidence: ConfidenceHigh,
			Pattern:    b.kind,
			Videos:     members,
		})
		report.Summary.ExplicitSeries++
		report.Summary.VideosInSeries += len(members)
	}

	for _, b := range potential.order {
		if len(b.members) < 2 {
			continue
		}
		group, err := d.assessPotential(b)
		if err != nil {
			report.Summary.Rejected++
			d.logger.Debug("potential series rejected",
				logging.String("base_title", b.base),
				logging.Int("videos", len(b.members)),
				logging.String("reason", err.Error()),
			)
			continue
		}
		report.Groups = append(report.Groups, group)
		report.Summary.PotentialSeries++
		report.Summary.VideosInSeries += len(group.Videos)
	}

	d.logger.Info("trip detection complete",
		logging.Int("scanned", report.Summary.Scanned),
		logging.Int("explicit_series", report.Summary.ExplicitSeries),
		logging.Int("potential_series", report.Summary.PotentialSeries),
		logging.Int("rejected", report.Summary.Rejected),
	)
	return report
}

func (d *Detector) assessPotential(b *bucket) (Group, error) {
	members := append([]Member(nil), b.members...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].UploadDate < members[j].UploadDate
	})

	first, err := ParseDate(members[0].UploadDate)
	if err != nil {
		return Group{}, err
	}
	last, err := ParseDate(members[len(members)-1].UploadDate)
	if err != nil {
		return Group{}, err
	}
	span := SpanDays(first, last)
	if span >= d.policy.MaxSpanDays {
		return Group{}, fmt.Errorf("uploads span %d days (limit %d)", span, d.policy.MaxSpanDays)
	}

	total := 0
	for _, m := range members {
		total += *m.TripScore
	}
	confidence := ConfidenceLow
	if float64(total)/float64(len(members)) >= d.policy.MediumConfidenceScore {
		confidence = ConfidenceMedium
	}

	return Group{
		BaseTitle:    b.base,
		Type:         GroupPotential,
		Confidence:   confidence,
		Videos:       members,
		DateSpanDays: intPtr(span),
	}, nil
}

// ParseDate reads the date portion (YYYY-MM-DD) of an upload timestamp.
func ParseDate(value string) (time.Time, error) {
	if len(value) < 10 {
		return time.Time{}, fmt.Errorf("upload date %q is not an ISO date", value)
	}
	t, err := time.Parse(time.DateOnly, value[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("upload date %q: %w", value, err)
	}
	return t, nil
}

// SpanDays returns the whole days between two dates.
func SpanDays(first, last time.Time) int {
	return int(last.Sub(first).Hours() / 24)
}
