package tagstats

import (
	"sort"
	"strconv"
	"time"
)

// KeyCount is one histogram bar.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// UploadsByYear counts upload timestamps by their YYYY prefix, oldest first.
func UploadsByYear(dates []string) []KeyCount {
	counts := make(map[string]int)
	for _, d := range dates {
		if len(d) < 4 {
			continue
		}
		counts[d[:4]]++
	}
	return sortedKeys(counts)
}

// UploadsByMonth counts upload timestamps by calendar month, January first.
// Keys are English month names.
func UploadsByMonth(dates []string) []KeyCount {
	counts := make(map[int]int)
	for _, d := range dates {
		if len(d) < 7 {
			continue
		}
		month, err := strconv.Atoi(d[5:7])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		counts[month]++
	}
	months := make([]int, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Ints(months)
	out := make([]KeyCount, 0, len(months))
	for _, m := range months {
		out = append(out, KeyCount{Key: time.Month(m).String(), Count: counts[m]})
	}
	return out
}

// DurationStats summarizes video lengths.
type DurationStats struct {
	Count    int           `json:"count"`
	Total    time.Duration `json:"total"`
	Average  time.Duration `json:"average"`
	Shortest time.Duration `json:"shortest"`
	Longest  time.Duration `json:"longest"`
}

// Durations computes count, average, shortest and longest. Zero durations
// (unknown length) are ignored.
func Durations(values []time.Duration) DurationStats {
	var s DurationStats
	for _, v := range values {
		if v <= 0 {
			continue
		}
		if s.Count == 0 || v < s.Shortest {
			s.Shortest = v
		}
		if v > s.Longest {
			s.Longest = v
		}
		s.Total += v
		s.Count++
	}
	if s.Count > 0 {
		s.Average = s.Total / time.Duration(s.Count)
	}
	return s
}

func sortedKeys(counts map[string]int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
