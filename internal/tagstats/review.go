package tagstats

import "posawiki/internal/textutil"

// ReviewEntry is a frequently used unvalidated tag with sample videos.
type ReviewEntry struct {
	TagCount
	Examples []VideoRef `json:"examples"`
}

// Review summarizes unvalidated tags for vocabulary growth.
type Review struct {
	UniqueTags     int            `json:"unique_tags"`
	TotalInstances int            `json:"total_instances"`
	Authority      []ReviewEntry  `json:"authority"`
	Candidate      []ReviewEntry  `json:"candidate"`
	Noise          []TagCount     `json:"noise"`
	VariantGroups  []VariantGroup `json:"variant_groups"`
}

// ReviewUnvalidated buckets the unvalidated tags in records (each record's
// Tags holding that video's unvalidated list) and attaches up to
// t.ExampleVideos example videos to the two upper buckets.
func ReviewUnvalidated(records []Record, t Thresholds) Review {
	freqs := Frequencies(records)
	buckets := Bucketize(freqs, t)
	examples := collectExamples(records, t.ExampleVideos)

	review := Review{
		UniqueTags:     len(freqs),
		TotalInstances: TotalUses(freqs),
		Authority:      withExamples(buckets.Authority, examples),
		Candidate:      withExamples(buckets.Candidate, examples),
		Noise:          buckets.Noise,
		VariantGroups:  PrefixGroups(freqs, t.PrefixLength, t.VariantMinUses),
	}
	return review
}

func collectExamples(records []Record, limit int) map[string][]VideoRef {
	out := make(map[string][]VideoRef)
	if limit <= 0 {
		return out
	}
	seen := make(map[string]map[string]struct{})
	for _, r := range records {
		for _, tag := range r.Tags {
			key := textutil.FoldKey(tag)
			if len(out[key]) >= limit {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[string]struct{})
			}
			if _, dup := seen[key][r.VideoID]; dup {
				continue
			}
			seen[key][r.VideoID] = struct{}{}
			out[key] = append(out[key], VideoRef{VideoID: r.VideoID, Title: r.Title})
		}
	}
	return out
}

func withExamples(freqs []TagCount, examples map[string][]VideoRef) []ReviewEntry {
	entries := make([]ReviewEntry, 0, len(freqs))
	for _, f := range freqs {
		refs := examples[f.Tag]
		if refs == nil {
			refs = []VideoRef{}
		}
		entries = append(entries, ReviewEntry{TagCount: f, Examples: refs})
	}
	return entries
}
