package tagstats

import (
	"sort"

	"posawiki/internal/config"
	"posawiki/internal/textutil"
)

// TagCount is a folded tag with its number of uses.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// VideoRef identifies a video in example lists.
type VideoRef struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
}

// Record is one video's tag list as fed to the reports.
type Record struct {
	VideoID string
	Title   string
	Tags    []string
}

// Thresholds configures bucket boundaries and variant grouping.
type Thresholds struct {
	PrefixLength       int
	AuthorityThreshold int
	CandidateThreshold int
	VariantMinUses     int
	ExampleVideos      int
}

// ThresholdsFromConfig converts the [stats] config section.
func ThresholdsFromConfig(s config.Stats) Thresholds {
	return Thresholds{
		PrefixLength:       s.PrefixLength,
		AuthorityThreshold: s.AuthorityThreshold,
		CandidateThreshold: s.CandidateThreshold,
		VariantMinUses:     s.VariantMinUses,
		ExampleVideos:      s.ExampleVideos,
	}
}

// DefaultThresholds mirrors the configuration defaults.
func DefaultThresholds() Thresholds {
	return ThresholdsFromConfig(config.Default().Stats)
}

// Frequencies counts every tag occurrence after case folding.
func Frequencies(records []Record) []TagCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, tag := range r.Tags {
			counts[textutil.FoldKey(tag)]++
		}
	}
	return sortedCounts(counts)
}

// TotalUses sums the counts.
func TotalUses(freqs []TagCount) int {
	total := 0
	for _, f := range freqs {
		total += f.Count
	}
	return total
}

// VariantGroup lists frequently used tags sharing a prefix.
type VariantGroup struct {
	Prefix   string     `json:"prefix"`
	Variants []TagCount `json:"variants"`
}

// PrefixGroups groups tags used at least minUses times by their first
// prefixLen runes and keeps groups holding more than one spelling.
func PrefixGroups(freqs []TagCount, prefixLen, minUses int) []VariantGroup {
	byPrefix := make(map[string][]TagCount)
	for _, f := range freqs {
		if f.Count < minUses {
			continue
		}
		key := textutil.Prefix(f.Tag, prefixLen)
		byPrefix[key] = append(byPrefix[key], f)
	}
	var groups []VariantGroup
	for prefix, variants := range byPrefix {
		if len(variants) < 2 {
			continue
		}
		sortTagCounts(variants)
		groups = append(groups, VariantGroup{Prefix: prefix, Variants: variants})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Prefix < groups[j].Prefix })
	return groups
}

// Buckets splits tags by usage: authority candidates used at least
// AuthorityThreshold times, review candidates used at least
// CandidateThreshold times, and the long tail.
type Buckets struct {
	Authority []TagCount `json:"authority"`
	Candidate []TagCount `json:"candidate"`
	Noise     []TagCount `json:"noise"`
}

// Bucketize assigns each tag to exactly one bucket, keeping input order.
func Bucketize(freqs []TagCount, t Thresholds) Buckets {
	b := Buckets{Authority: []TagCount{}, Candidate: []TagCount{}, Noise: []TagCount{}}
	for _, f := range freqs {
		switch {
		case f.Count >= t.AuthorityThreshold:
			b.Authority = append(b.Authority, f)
		case f.Count >= t.CandidateThreshold:
			b.Candidate = append(b.Candidate, f)
		default:
			b.Noise = append(b.Noise, f)
		}
	}
	return b
}

func sortedCounts(counts map[string]int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sortTagCounts(out)
	return out
}

func sortTagCounts(values []TagCount) {
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Tag < values[j].Tag
	})
}
