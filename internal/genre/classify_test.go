package genre

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNoGenre(t *testing.T) {
	for _, raw := range []string{"", "   ", "[]", "['']", "[' ']", `[""]`} {
		got, err := Classify(ArtistRecord{Name: "a", Raw: raw}, DefaultRules())
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, NoGenre, got, "raw %q", raw)
	}
}

func TestClassifyOther(t *testing.T) {
	rules := DefaultRules()

	got, err := Classify(ArtistRecord{Name: "a", Raw: "['gregorian chant']"}, rules)
	require.NoError(t, err)
	assert.Equal(t, Other, got)

	got, err = Classify(ArtistRecord{Name: "b", Raw: "['gregorian chant', 'sea shanty', 'polka']"}, rules)
	require.NoError(t, err)
	assert.Equal(t, Other, got)
}

func TestClassifyTieBetweenTwoBuckets(t *testing.T) {
	got, err := Classify(ArtistRecord{Name: "a", Raw: "['bebop', 'baroque']"}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, TieGenre, got)
}

func TestClassifyIndiePopChillwave(t *testing.T) {
	res, err := Evaluate(ArtistRecord{Name: "a", Raw: "['indie pop', 'chillwave']"}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, []string{"indie pop", "chillwave"}, res.Genres)
	assert.Equal(t, Counts{Indie: 1, Electronica: 1}, res.Counts)
	assert.Equal(t, TieGenre, res.BroadGenre)
}

func TestClassifyElectronica(t *testing.T) {
	res, err := Evaluate(ArtistRecord{Name: "a", Raw: "['deep house', 'edm']"}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, Counts{Electronica: 2}, res.Counts)
	assert.Equal(t, Electronica, res.BroadGenre)
}

func TestClassifyMajority(t *testing.T) {
	got, err := Classify(ArtistRecord{Name: "a", Raw: "['alternative rock', 'grunge', 'indie folk']"}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, Rock, got)
}

func TestClassifyIsIdempotent(t *testing.T) {
	a := ArtistRecord{Name: "a", Raw: "['pop rap', 'trap', 'southern hip hop']"}
	first, err := Classify(a, DefaultRules())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Classify(a, DefaultRules())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	got, err := Classify(ArtistRecord{Name: "a", Raw: "['ROCK']"}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, Other, got)
}

func TestClassifyMalformed(t *testing.T) {
	for _, raw := range []string{
		"indie pop",
		"['indie pop'",
		"['indie pop', 'chillwave",
		"[['nested']]",
		"[{'a': 'b'}]",
		"{'a': 'b'}",
		"[indie pop, chillwave]",
		"[1, 2]",
		"[null, 'rock']",
		"[!!binary aGk=]",
		"[!!str 'rock']",
		"[&x 'a', *x]",
		"&s ['a']",
	} {
		_, err := Classify(ArtistRecord{Name: "a", Raw: raw}, DefaultRules())
		require.Error(t, err, "raw %q", raw)
		var mErr *MalformedInputError
		assert.True(t, errors.As(err, &mErr), "raw %q: %v", raw, err)
	}
}

func TestMatchPriority(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		specific string
		want     BroadGenre
	}{
		{"pop rap", Pop},               // Pop before Rap
		{"trap soul", HipHop},          // Hip Hop before R&B
		{"rap rock", Rap},              // Rap before Rock
		{"neo soul", RnB},              // R&B only
		{"electro swing", Electronica}, // Electronica before Jazz
		{"indie rock", Rock},           // Rock before Indie
		{"jazz funk", RnB},             // R&B before Jazz
		{"indie folk", Indie},          // Indie before Folk/Country
		{"country", FolkCountry},
		{"polka", Other},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, rules.Match(tc.specific), tc.specific)
	}
}

func TestMatchPriorityFollowsRuleOrder(t *testing.T) {
	rules := Rules{
		{Genre: Jazz, Keywords: []string{"fusion"}},
		{Genre: Rock, Keywords: []string{"fusion"}},
	}
	assert.Equal(t, Jazz, rules.Match("jazz fusion"))

	rules[0], rules[1] = rules[1], rules[0]
	assert.Equal(t, Rock, rules.Match("jazz fusion"))
}

func TestCountsWinner(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   BroadGenre
	}{
		{"empty", Counts{}, NoGenre},
		{"single other", Counts{Other: 1}, Other},
		{"clear max", Counts{Rock: 3, Pop: 1}, Rock},
		{"exact tie at max", Counts{Rock: 2, Pop: 2, Jazz: 1}, TieGenre},
		{"three way tie", Counts{Rock: 1, Pop: 1, Jazz: 1}, TieGenre},
		{"near tie is not a tie", Counts{Rock: 3, Pop: 2}, Rock},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.counts.Winner())
		})
	}
}

func TestUnmatched(t *testing.T) {
	got := Unmatched([]string{"polka", "deep house", "sea shanty", "polka", "indie pop"}, DefaultRules())
	assert.Equal(t, []string{"polka", "sea shanty"}, got)
}
