package genre

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule assigns a broad genre to any specific genre containing one of its
// keywords.
type Rule struct {
	Genre    BroadGenre `yaml:"genre"`
	Keywords []string   `yaml:"keywords"`
}

// Rules is an ordered keyword table. The first rule with a matching keyword
// wins, so the slice order is the matching priority.
type Rules []Rule

var defaultRules = Rules{
	{HipHop, []string{"hip hop", "hip-hop", "trap", "drill", "grime", "boom bap", "crunk", "hyphy"}},
	{Pop, []string{
		"dance pop", "pop dance", "electropop", "synthpop", "post-teen pop", "teen pop", "pop rap",
		"pop rock", "art pop", "k-pop", "j-pop", "europop", "viral pop", "bubblegum", "boy band",
		"girl group", "canadian pop", "uk pop", "australian pop", "norwegian pop", "swedish pop",
		"danish pop", "german pop", "french pop", "latin pop", "brazilian pop",
	}},
	{Rap, []string{"rap"}},
	{RnB, []string{"r&b", "soul", "funk", "motown", "quiet storm", "new jack swing"}},
	{Electronica, []string{
		"electronic", "electro", "edm", "house", "techno", "trance", "dubstep", "drum and bass",
		"chillwave", "synthwave", "downtempo", "ambient", "idm", "big room", "breakbeat", "uk garage",
	}},
	{Rock, []string{"rock", "metal", "punk", "grunge", "emo", "shoegaze", "hardcore"}},
	{Jazz, []string{"jazz", "bebop", "swing", "bossa nova"}},
	{Classical, []string{"classical", "baroque", "orchestra", "opera", "choral", "early music", "string quartet"}},
	{Indie, []string{"indie", "alternative", "lo-fi", "bedroom"}},
	{FolkCountry, []string{"folk", "country", "bluegrass", "americana", "singer-songwriter", "cowboy"}},
}

// DefaultRules returns a copy of the built-in keyword table, ordered
// Hip Hop, Pop, Rap, R&B, Electronica, Rock, Jazz, Classical, Indie,
// Folk/Country.
func DefaultRules() Rules {
	out := make(Rules, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = Rule{Genre: r.Genre, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Match returns the bucket the specific genre counts toward. Keywords match
// as case-sensitive substrings; a genre no rule matches counts toward Other.
func (r Rules) Match(specific string) BroadGenre {
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			if strings.Contains(specific, kw) {
				return rule.Genre
			}
		}
	}
	return Other
}

// Validate checks that every rule names a distinct keyword-driven bucket and
// carries only non-empty lowercase keywords.
func (r Rules) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("no rules")
	}
	seen := make(map[BroadGenre]bool)
	for i, rule := range r {
		if !rule.Genre.KeywordDriven() {
			return fmt.Errorf("rule %d: %q is not a keyword bucket", i, rule.Genre)
		}
		if seen[rule.Genre] {
			return fmt.Errorf("rule %d: duplicate bucket %q", i, rule.Genre)
		}
		seen[rule.Genre] = true
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s): no keywords", i, rule.Genre)
		}
		for _, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("rule %d (%s): empty keyword", i, rule.Genre)
			}
			if strings.ToLower(kw) != kw {
				return fmt.Errorf("rule %d (%s): keyword %q is not lowercase", i, rule.Genre, kw)
			}
		}
	}
	return nil
}

// Fingerprint identifies the rule table's content, order included.
func (r Rules) Fingerprint() string {
	h := sha256.New()
	r.write(h)
	return hex.EncodeToString(h.Sum(nil))
}

func (r Rules) write(h hash.Hash) {
	for _, rule := range r {
		writeField(h, string(rule.Genre))
		writeField(h, strconv.Itoa(len(rule.Keywords)))
		for _, kw := range rule.Keywords {
			writeField(h, kw)
		}
	}
}

// writeField length-prefixes s so adjacent fields can't run together.
func writeField(h hash.Hash, s string) {
	h.Write([]byte(strconv.Itoa(len(s))))
	h.Write([]byte{':'})
	h.Write([]byte(s))
}

type rulesFile struct {
	Rules Rules `yaml:"rules"`
}

// LoadRules reads an ordered rule table from a YAML file of the form
//
//	rules:
//	  - genre: Hip Hop
//	    keywords: [hip hop, trap]
func LoadRules(path string) (Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decoding rules %s: %w", path, err)
	}
	if err := f.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return f.Rules, nil
}
