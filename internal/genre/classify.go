package genre

import "sort"

// ArtistRecord is one row of the artist table as the classifier sees it.
type ArtistRecord struct {
	Name string
	// Raw is the serialized specific-genre list. Empty means the catalog had
	// no genre data for the artist.
	Raw string
}

// Counts holds the number of specific genres attributed to each bucket.
type Counts map[BroadGenre]int

// Add folds one specific genre into the counts.
func (c Counts) Add(specific string, rules Rules) Counts {
	c[rules.Match(specific)]++
	return c
}

// Winner returns the bucket with the highest count, or Tie Genre when two or
// more buckets share it. Empty counts give No Genre.
func (c Counts) Winner() BroadGenre {
	best := 0
	for _, n := range c {
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return NoGenre
	}

	winner := NoGenre
	atMax := 0
	for _, g := range all {
		if c[g] == best {
			winner = g
			atMax++
		}
	}
	if atMax > 1 {
		return TieGenre
	}
	return winner
}

// Result is the full outcome of classifying one artist.
type Result struct {
	Genres     []string
	Counts     Counts
	BroadGenre BroadGenre
}

// Evaluate classifies the artist and keeps the intermediate counts.
func Evaluate(a ArtistRecord, rules Rules) (Result, error) {
	genres, err := ParseRawGenres(a.Raw)
	if err != nil {
		return Result{}, err
	}
	if len(genres) == 0 {
		return Result{Genres: genres, Counts: Counts{}, BroadGenre: NoGenre}, nil
	}

	counts := make(Counts)
	for _, g := range genres {
		counts.Add(g, rules)
	}
	return Result{Genres: genres, Counts: counts, BroadGenre: counts.Winner()}, nil
}

// Classify returns the artist's broad genre. Text that isn't a genre list
// yields a *MalformedInputError.
func Classify(a ArtistRecord, rules Rules) (BroadGenre, error) {
	res, err := Evaluate(a, rules)
	if err != nil {
		return "", err
	}
	return res.BroadGenre, nil
}

// Unmatched returns the distinct specific genres that no rule claims, sorted.
func Unmatched(genres []string, rules Rules) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range genres {
		if seen[g] || rules.Match(g) != Other {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
