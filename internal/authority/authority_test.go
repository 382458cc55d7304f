package authority

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSnapshot(t *testing.T, auths ...Authority) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(auths)
	require.NoError(t, err)
	return snap
}

func TestResolveMultiAuthorityAlias(t *testing.T) {
	snap := mustSnapshot(t,
		Authority{CanonicalName: "Bushcraft", Category: CategoryActivity, Aliases: []string{"bushcraft", "bushcraft shelter"}},
		Authority{CanonicalName: "Survival Structures", Category: CategoryActivity, Aliases: []string{"shelter", "bushcraft shelter"}},
	)
	got := NewResolver(snap).Resolve([]string{"bushcraft shelter"})

	assert.Equal(t, []string{"Bushcraft", "Survival Structures"}, got.Validated)
	assert.Empty(t, got.Unvalidated)
}

func TestResolveDedupesAndKeepsOriginalCase(t *testing.T) {
	snap := mustSnapshot(t,
		Authority{CanonicalName: "Dogs", Category: CategorySubject, Aliases: []string{"dog", "dogs"}},
	)
	got := NewResolver(snap).Resolve([]string{"Dog", "camping", "DOGS", "camping", "Camping"})

	assert.Equal(t, []string{"Dogs"}, got.Validated)
	assert.Equal(t, []string{"camping", "Camping"}, got.Unvalidated)
	assert.Equal(t, []string{"Dog", "camping", "DOGS", "camping", "Camping"}, got.Original)
}

func TestResolveEmptyTags(t *testing.T) {
	got := NewResolver(mustSnapshot(t)).Resolve(nil)
	assert.NotNil(t, got.Validated)
	assert.NotNil(t, got.Unvalidated)
	assert.Empty(t, got.Validated)
	assert.Empty(t, got.Unvalidated)
}

func TestResolveCoversEveryTag(t *testing.T) {
	snap, err := Seed()
	require.NoError(t, err)
	resolver := NewResolver(snap)
	idx := resolver.Index()

	tags := []string{"BWCA", "winter camping", "Monty", "random vlog", "  Collie ", "my gear", "outdoors"}
	got := resolver.Resolve(tags)

	for _, tag := range tags {
		names, ok := idx.Lookup(tag)
		if ok {
			for _, name := range names {
				assert.Contains(t, got.Validated, name, "tag %q", tag)
			}
			assert.NotContains(t, got.Unvalidated, tag)
		} else {
			assert.Contains(t, got.Unvalidated, tag)
		}
	}
	assert.Equal(t, []string{"random vlog", "my gear"}, got.Unvalidated)
	assert.Contains(t, got.Validated, "Nature")
	assert.Contains(t, got.Validated, "Outdoorsman Content")
}

func TestResolveIsIdempotent(t *testing.T) {
	snap, err := Seed()
	require.NoError(t, err)
	resolver := NewResolver(snap)
	tags := []string{"dog", "Bushcraft Cooking", "unknown thing"}

	first := resolver.Resolve(tags)
	second := resolver.Resolve(first.Original)
	assert.True(t, first.SameSets(second))
	assert.Equal(t, first, second)
}

func TestAssignmentSameSetsIgnoresOrder(t *testing.T) {
	a := Assignment{Validated: []string{"A", "B"}, Unvalidated: []string{"x"}}
	b := Assignment{Validated: []string{"B", "A"}, Unvalidated: []string{"x"}}
	c := Assignment{Validated: []string{"A"}, Unvalidated: []string{"x"}}
	assert.True(t, a.SameSets(b))
	assert.False(t, a.SameSets(c))
}

func TestIndexEntriesAreSets(t *testing.T) {
	snap, err := Seed()
	require.NoError(t, err)
	idx := BuildIndex(snap)

	names, ok := idx.Lookup("DOG")
	require.True(t, ok)
	assert.Equal(t, []string{"Dogs"}, names)

	multi := idx.MultiMapped()
	aliases := make([]string, 0, len(multi))
	for _, m := range multi {
		aliases = append(aliases, m.Alias)
	}
	assert.Equal(t, []string{"bushcraft cooking", "bushcraft shelter", "outdoors", "survival shelter"}, aliases)
	assert.Equal(t, 211, idx.Len())
}

func TestNewSnapshotRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		auths []Authority
	}{
		{"missing name", []Authority{{Category: CategorySubject, Aliases: []string{"x"}}}},
		{"no aliases", []Authority{{CanonicalName: "X", Category: CategorySubject}}},
		{"blank alias", []Authority{{CanonicalName: "X", Category: CategorySubject, Aliases: []string{"  "}}}},
		{"unknown category", []Authority{{CanonicalName: "X", Category: "planet", Aliases: []string{"x"}}}},
		{"duplicate alias", []Authority{{CanonicalName: "X", Category: CategorySubject, Aliases: []string{"Dog", "dog"}}}},
		{"duplicate name", []Authority{
			{CanonicalName: "X", Category: CategorySubject, Aliases: []string{"x"}},
			{CanonicalName: "X", Category: CategoryBreed, Aliases: []string{"y"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSnapshot(tc.auths)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "expected ErrInvalid, got %v", err)
		})
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	input := []Authority{{CanonicalName: "Dogs", Category: CategorySubject, Aliases: []string{"dog"}}}
	snap := mustSnapshot(t, input...)
	input[0].Aliases[0] = "cat"

	got := snap.Authorities()
	got[0].Aliases[0] = "bird"

	auth, ok := snap.Get("Dogs")
	require.True(t, ok)
	assert.Equal(t, []string{"dog"}, auth.Aliases)
}

func TestSeedVocabulary(t *testing.T) {
	snap, err := Seed()
	require.NoError(t, err)
	assert.Equal(t, 54, snap.Len())
	assert.Equal(t, 215, snap.AliasCount())

	dogs, ok := snap.Get("Dogs")
	require.True(t, ok)
	assert.Equal(t, CategorySubject, dogs.Category)
	assert.Equal(t, 10, len(snap.CategoryCounts()))
}

func TestLoadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "tags.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`authorities:
  - canonical_name: Dogs
    category: subject
    aliases: [dog, dogs]
  - canonical_name: Rough Collie
    category: breed
    aliases: [rough collie, collie]
    description: long-haired herding breed
`), 0o644))

	snap, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	jsonPath := filepath.Join(dir, "roundtrip.json")
	require.NoError(t, Write(jsonPath, snap))
	reloaded, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, snap.Authorities(), reloaded.Authorities())
}

func TestLoadFailsFast(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	badCategory := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badCategory, []byte(`{"authorities":[{"canonical_name":"X","category":"planet","aliases":["x"]}]}`), 0o644))
	_, err = Load(badCategory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	unknownField := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(unknownField, []byte("authorities:\n  - canonical_name: X\n    category: subject\n    aliases: [x]\n    colour: red\n"), 0o644))
	_, err = Load(unknownField)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"authorities":[]}`), 0o644))
	_, err = Load(empty)
	require.Error(t, err)

	_, err = Load(filepath.Join(dir, "tags.txt"))
	require.Error(t, err)
}
