package tripdetect

import (
	"encoding/json"
	"fmt"
	"os"

	"posawiki/internal/fileutil"
	"posawiki/internal/validation"
)

var groupValidator = validation.New()

// WriteGroups stores groups as an indented JSON array, the format reviewers
// edit and LoadGroups reads back.
func WriteGroups(path string, groups []Group) error {
	if groups == nil {
		groups = []Group{}
	}
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("encode candidate groups: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write candidate groups: %w", err)
	}
	return nil
}

// LoadGroups reads a reviewed candidate group file. Unknown enum values,
// missing fields and malformed JSON fail the whole load.
func LoadGroups(path string) ([]Group, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candidate groups: %w", err)
	}
	defer file.Close()

	var groups []Group
	dec := json.NewDecoder(file)
	if err := dec.Decode(&groups); err != nil {
		return nil, fmt.Errorf("candidate groups %s: decode: %w", path, err)
	}
	for i := range groups {
		if err := groupValidator.Validate("candidate group", groups[i]); err != nil {
			return nil, fmt.Errorf("candidate groups %s: entry %d (%q): %w", path, i, groups[i].BaseTitle, err)
		}
		for _, m := range groups[i].Videos {
			if _, err := ParseDate(m.UploadDate); err != nil {
				return nil, fmt.Errorf("candidate groups %s: entry %d (%q): %w", path, i, groups[i].BaseTitle, err)
			}
		}
	}
	return groups, nil
}
