// Package genre maps an artist's free-text catalog genres onto a small closed
// set of broad genres using ordered keyword rules.
package genre

import "fmt"

// BroadGenre is one of the canonical categories used for aggregate analysis.
type BroadGenre string

const (
	Classical   BroadGenre = "Classical"
	Electronica BroadGenre = "Electronica"
	FolkCountry BroadGenre = "Folk/Country"
	HipHop      BroadGenre = "Hip Hop"
	Indie       BroadGenre = "Indie"
	Jazz        BroadGenre = "Jazz"
	NoGenre     BroadGenre = "No Genre"
	Other       BroadGenre = "Other"
	Pop         BroadGenre = "Pop"
	RnB         BroadGenre = "R&B"
	Rap         BroadGenre = "Rap"
	Rock        BroadGenre = "Rock"
	TieGenre    BroadGenre = "Tie Genre"
)

// all is alphabetical. Code that walks buckets walks them in this order.
var all = []BroadGenre{
	Classical, Electronica, FolkCountry, HipHop, Indie, Jazz, NoGenre, Other, Pop, RnB, Rap, Rock, TieGenre,
}

// All returns every broad genre in alphabetical order.
func All() []BroadGenre {
	out := make([]BroadGenre, len(all))
	copy(out, all)
	return out
}

// ParseBroadGenre returns the broad genre with the given display name.
func ParseBroadGenre(name string) (BroadGenre, error) {
	for _, g := range all {
		if string(g) == name {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown broad genre %q", name)
}

// KeywordDriven reports whether rules may assign g. No Genre, Other and Tie
// Genre are outcomes of the algorithm, not keyword buckets.
func (g BroadGenre) KeywordDriven() bool {
	switch g {
	case NoGenre, Other, TieGenre, "":
		return false
	}
	_, err := ParseBroadGenre(string(g))
	return err == nil
}

func (g BroadGenre) String() string {
	return string(g)
}
