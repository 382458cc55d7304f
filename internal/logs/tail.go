package logs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Filter narrows which lines are returned. Empty fields match everything.
type Filter struct {
	RunID     string
	EventType string
	// Level matches the level token, e.g. "WARN" or "warn".
	Level string
}

func (f Filter) empty() bool {
	return f.RunID == "" && f.EventType == "" && f.Level == ""
}

func (f Filter) match(line string) bool {
	if f.RunID != "" && !hasField(line, "run_id", f.RunID) {
		return false
	}
	if f.EventType != "" && !hasField(line, "event_type", f.EventType) {
		return false
	}
	if f.Level != "" && !hasLevel(line, f.Level) {
		return false
	}
	return true
}

// hasField matches key=value in console lines and "key":"value" in JSON lines.
func hasField(line, key, value string) bool {
	return strings.Contains(line, key+"="+value) ||
		strings.Contains(line, `"`+key+`":"`+value+`"`)
}

func hasLevel(line, level string) bool {
	upper := strings.ToUpper(strings.TrimSpace(level))
	lower := strings.ToLower(upper)
	return strings.Contains(line, " "+upper+" ") ||
		strings.Contains(line, `"level":"`+lower+`"`)
}

// Last returns up to limit trailing lines of path that match f, oldest first.
// A missing file yields no lines. limit <= 0 returns every matching line.
func Last(path string, limit int, f Filter) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if limit <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); f.empty() || f.match(line) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, limit)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !f.empty() && !f.match(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
