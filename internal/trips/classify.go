package trips

import (
	"strings"

	"posawiki/internal/catalog"
	"posawiki/internal/textutil"
)

var seriesKeywords = []string{"fishing show", "episode", "show", "series"}

// InferVersionType labels a member from its title. The first rule that
// matches wins: extended edition, episode, night, then plain part.
func InferVersionType(title string) catalog.VersionType {
	switch {
	case strings.Contains(title, "[Extended Version]"):
		return catalog.VersionExtended
	case strings.Contains(title, "Episode"):
		return catalog.VersionEpisode
	case strings.Contains(title, "Night"):
		return catalog.VersionNight
	default:
		return catalog.VersionPart
	}
}

// ClassifySeriesType marks a trip as a series when its name reads like a
// show or any member is an episode.
func ClassifySeriesType(name string, versions []catalog.VersionType) catalog.SeriesType {
	lower := textutil.Lower(name)
	for _, keyword := range seriesKeywords {
		if strings.Contains(lower, keyword) {
			return catalog.SeriesTypeSeries
		}
	}
	for _, v := range versions {
		if v == catalog.VersionEpisode {
			return catalog.SeriesTypeSeries
		}
	}
	return catalog.SeriesTypeTrip
}

// Gaps lists the numbers missing from 1..max(numbers).
func Gaps(numbers []int) []int {
	present := make(map[int]struct{}, len(numbers))
	highest := 0
	for _, n := range numbers {
		present[n] = struct{}{}
		if n > highest {
			highest = n
		}
	}
	gaps := []int{}
	for i := 1; i <= highest; i++ {
		if _, ok := present[i]; !ok {
			gaps = append(gaps, i)
		}
	}
	return gaps
}
