package genre

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawGenres(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"['indie pop', 'chillwave']", []string{"indie pop", "chillwave"}},
		{`["children's music", 'lullaby']`, []string{"children's music", "lullaby"}},
		{"  [ 'deep house' ,'edm' ]  ", []string{"deep house", "edm"}},
		{"[' trimmed ']", []string{"trimmed"}},
		{"['', 'rock']", []string{"rock"}},
		{"[]", []string{}},
		{"['']", []string{}},
		{`['rock n\'roll']`, []string{"rock n'roll"}},
		{`['back\\slash', "it's"]`, []string{`back\slash`, "it's"}},
		{`["say \"hi\""]`, []string{`say "hi"`}},
	}
	for _, tc := range tests {
		got, err := ParseRawGenres(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseRawGenresAbsent(t *testing.T) {
	got, err := ParseRawGenres("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseRawGenresMalformed(t *testing.T) {
	_, err := ParseRawGenres("['unterminated")
	require.Error(t, err)

	var mErr *MalformedInputError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "['unterminated", mErr.Raw)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestParseRawGenresRejectsUnquoted(t *testing.T) {
	for _, raw := range []string{"[indie pop]", "[1, 2]", "[null]", "[true, 'rock']"} {
		_, err := ParseRawGenres(raw)
		var mErr *MalformedInputError
		require.True(t, errors.As(err, &mErr), "raw %q: %v", raw, err)
		assert.ErrorIs(t, err, errNotQuoted, raw)
	}
}
