package genre

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	*MemoryCache
	loads, saves int
}

func (c *countingCache) Load(key string) (map[string]BroadGenre, bool, error) {
	c.loads++
	return c.MemoryCache.Load(key)
}

func (c *countingCache) Save(key string, labels map[string]BroadGenre) error {
	c.saves++
	return c.MemoryCache.Save(key, labels)
}

func testArtists() []ArtistRecord {
	return []ArtistRecord{
		{Name: "Washed Out", Raw: "['indie pop', 'chillwave']"},
		{Name: "Disclosure", Raw: "['deep house', 'edm']"},
		{Name: "Nobody", Raw: ""},
		{Name: "Broken", Raw: "['unterminated"},
	}
}

func TestClassifyAll(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), c.Rules())

	got, err := c.ClassifyAll(testArtists())
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, TieGenre, got[0].BroadGenre)
	assert.Equal(t, []string{"indie pop", "chillwave"}, got[0].Genres)
	assert.Equal(t, Electronica, got[1].BroadGenre)
	assert.Equal(t, NoGenre, got[2].BroadGenre)
	assert.Equal(t, NoGenre, got[3].BroadGenre, "malformed rows degrade to No Genre")
	assert.Equal(t, "Broken", got[3].Name)
}

func TestClassifyAllStrict(t *testing.T) {
	c, err := NewClassifier(DefaultRules(), WithStrict(true))
	require.NoError(t, err)

	_, err = c.ClassifyAll(testArtists())
	require.Error(t, err)
	var mErr *MalformedInputError
	assert.True(t, errors.As(err, &mErr))
}

func TestClassifyAllUsesCache(t *testing.T) {
	cache := &countingCache{MemoryCache: NewMemoryCache()}
	c, err := NewClassifier(DefaultRules(), WithCache(cache))
	require.NoError(t, err)

	first, err := c.ClassifyAll(testArtists())
	require.NoError(t, err)
	second, err := c.ClassifyAll(testArtists())
	require.NoError(t, err)

	assert.Equal(t, 2, cache.loads)
	assert.Equal(t, 1, cache.saves)
	for i := range first {
		assert.Equal(t, first[i].BroadGenre, second[i].BroadGenre)
		assert.Equal(t, first[i].Genres, second[i].Genres)
	}
}

func TestSnapshotKeyUsesContent(t *testing.T) {
	rules := DefaultRules()
	a := []ArtistRecord{{Name: "x", Raw: "['rock']"}}
	b := []ArtistRecord{{Name: "x", Raw: "['jazz']"}}
	assert.NotEqual(t, SnapshotKey(a, rules), SnapshotKey(b, rules))

	// Field boundaries must not be ambiguous.
	c := []ArtistRecord{{Name: "ab", Raw: "c"}}
	d := []ArtistRecord{{Name: "a", Raw: "bc"}}
	assert.NotEqual(t, SnapshotKey(c, rules), SnapshotKey(d, rules))

	other := Rules{{Genre: Rock, Keywords: []string{"rock"}}}
	assert.NotEqual(t, SnapshotKey(a, rules), SnapshotKey(a, other))
	assert.Equal(t, SnapshotKey(a, rules), SnapshotKey(a, DefaultRules()))
}

func TestNewClassifierRejectsInvalidRules(t *testing.T) {
	_, err := NewClassifier(Rules{{Genre: Other, Keywords: []string{"x"}}})
	assert.Error(t, err)
}
