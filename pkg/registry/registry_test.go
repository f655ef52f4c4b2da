package registry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
persons:
  - id: P-1
    forename: Otto
    familyname: Bollinger
    role: chairman
places:
  - id: L-1
    name: Stuttgart
    geonames_id: "2825297"
    wikidata_id: Q1022
    alternate_names: [Stuttgardt]
organizations:
  - id: O-1
    name: Liederkranz Stuttgart
    alternate_names: [Stuttgarter Liederkranz]
    place: Stuttgart
roles:
  - role: choir director
    schema: CHOIR_DIRECTOR
    synonyms: [Chorregent]
`

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestParseYAML(t *testing.T) {
	data, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, data.Persons, 1)
	assert.Equal(t, "Bollinger", data.Persons[0].Familyname)
	assert.Equal(t, []string{"Stuttgardt"}, data.Places[0].AlternateNames)
	assert.Equal(t, "CHOIR_DIRECTOR", data.Roles[0].Schema)

	_, err = ParseYAML([]byte("persons: [unclosed"))
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	data, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	s := NewSnapshot(*data)

	persons := slices.Collect(s.Persons())
	require.Len(t, persons, 1)
	assert.Equal(t, "P-1", persons[0].RegistryID)

	for _, id := range []string{"L-1", "2825297", "Q1022"} {
		p, ok := s.PlaceByID(id)
		assert.True(t, ok, id)
		assert.Equal(t, "Stuttgart", p.Name)
	}
	_, ok := s.PlaceByID("nope")
	assert.False(t, ok)

	o, ok := s.OrganizationByName("Stuttgarter  Liederkranz")
	require.True(t, ok)
	assert.Equal(t, "O-1", o.RegistryID)
	_, ok = s.OrganizationByID("O-1")
	assert.True(t, ok)

	assert.Equal(t, map[string]int{"persons": 1, "places": 1, "organizations": 1, "roles": 1}, s.Counts())
	assert.NotEmpty(t, s.Version())
	assert.Equal(t, s.Version(), NewSnapshot(*data).Version())
	assert.NotEqual(t, s.Version(), Empty().Version())
}

func TestSnapshotIsolatedFromInput(t *testing.T) {
	data := Data{Places: []PlaceEntry{{ID: "L-1", Name: "Ulm", AlternateNames: []string{"Ulm a. D."}}}}
	s := NewSnapshot(data)
	data.Places[0].AlternateNames[0] = "changed"
	data.Places[0].Name = "changed"

	p, ok := s.PlaceByID("L-1")
	require.True(t, ok)
	assert.Equal(t, "Ulm", p.Name)
	assert.Equal(t, []string{"Ulm a. D."}, p.AlternateNames)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	s, err := Load(context.Background(), FileSource{Path: path}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Counts()["places"])

	_, err = Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}, testLogger())
	assert.Error(t, err)
}

type memoryCache struct {
	values map[string]string
	getErr error
	sets   int
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.sets++
	m.values[key] = value.(string)
	return nil
}

type countingSource struct {
	data  *Data
	loads int
}

func (c *countingSource) Load(_ context.Context) (*Data, error) {
	c.loads++
	return c.data, nil
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	data, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	t.Run("miss then hit", func(t *testing.T) {
		cache := &memoryCache{values: map[string]string{}}
		src := &countingSource{data: data}
		cached := NewCachedSource(src, cache, "sorrel:registry", time.Hour, testLogger())

		first, err := cached.Load(ctx)
		require.NoError(t, err)
		second, err := cached.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, src.loads)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, first, second)
	})

	t.Run("cache failure falls back", func(t *testing.T) {
		cache := &memoryCache{values: map[string]string{}, getErr: errors.New("connection refused")}
		src := &countingSource{data: data}
		cached := NewCachedSource(src, cache, "k", time.Hour, testLogger())

		got, err := cached.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		assert.Equal(t, 1, src.loads)
	})

	t.Run("corrupt entry reloads", func(t *testing.T) {
		cache := &memoryCache{values: map[string]string{"k": "{not json"}}
		src := &countingSource{data: data}
		cached := NewCachedSource(src, cache, "k", time.Hour, testLogger())

		_, err := cached.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, src.loads)

		var stored Data
		require.NoError(t, json.Unmarshal([]byte(cache.values["k"]), &stored))
		assert.Equal(t, *data, stored)
	})
}
