package tagstats

import "posawiki/internal/authority"

// Coverage reports how much of the observed tag vocabulary the alias index
// resolves.
type Coverage struct {
	UniqueTags      int        `json:"unique_tags"`
	MappedTags      int        `json:"mapped_tags"`
	TotalInstances  int        `json:"total_instances"`
	MappedInstances int        `json:"mapped_instances"`
	UniquePercent   float64    `json:"unique_percent"`
	InstancePercent float64    `json:"instance_percent"`
	TopUnmapped     []TagCount `json:"top_unmapped"`
}

// CoverageOf measures idx against freqs. Unmapped tags used at least minUses
// times are listed, most used first, capped at limit (0 means no cap).
func CoverageOf(freqs []TagCount, idx *authority.Index, minUses, limit int) Coverage {
	c := Coverage{UniqueTags: len(freqs), TopUnmapped: []TagCount{}}
	for _, f := range freqs {
		c.TotalInstances += f.Count
		if idx.Contains(f.Tag) {
			c.MappedTags++
			c.MappedInstances += f.Count
			continue
		}
		if f.Count >= minUses && (limit <= 0 || len(c.TopUnmapped) < limit) {
			c.TopUnmapped = append(c.TopUnmapped, f)
		}
	}
	c.UniquePercent = percent(c.MappedTags, c.UniqueTags)
	c.InstancePercent = percent(c.MappedInstances, c.TotalInstances)
	return c
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
