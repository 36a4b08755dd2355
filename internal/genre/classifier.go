package genre

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// ClassifiedArtist is an artist record with its broad genre attached.
type ClassifiedArtist struct {
	ArtistRecord
	Genres     []string
	BroadGenre BroadGenre
}

// Cache memoizes the labels of a whole artist table under a snapshot key.
type Cache interface {
	Load(key string) (map[string]BroadGenre, bool, error)
	Save(key string, labels map[string]BroadGenre) error
}

// MemoryCache is a Cache that lives for the life of the process.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]map[string]BroadGenre
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]map[string]BroadGenre)}
}

func (m *MemoryCache) Load(key string) (map[string]BroadGenre, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels, ok := m.entries[key]
	return labels, ok, nil
}

func (m *MemoryCache) Save(key string, labels map[string]BroadGenre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = labels
	return nil
}

// SnapshotKey identifies an artist table together with the rules applied to
// it. Every name and the full raw genre text go into the key, so two tables
// with the same row count don't collide.
func SnapshotKey(records []ArtistRecord, rules Rules) string {
	h := sha256.New()
	rules.write(h)
	writeField(h, strconv.Itoa(len(records)))
	for _, r := range records {
		writeField(h, r.Name)
		writeField(h, r.Raw)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Classifier classifies whole artist tables, memoizing the result.
type Classifier struct {
	rules  Rules
	cache  Cache
	strict bool
	logger *slog.Logger
}

type Option func(*Classifier)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option {
	return func(cl *Classifier) { cl.cache = c }
}

// WithStrict makes ClassifyAll fail on the first malformed genre list instead
// of degrading the artist to No Genre.
func WithStrict(strict bool) Option {
	return func(cl *Classifier) { cl.strict = strict }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Classifier) { cl.logger = l }
}

func NewClassifier(rules Rules, opts ...Option) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	c := &Classifier{
		rules:  rules,
		cache:  NewMemoryCache(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Rules returns the rule table the classifier was built with.
func (c *Classifier) Rules() Rules {
	return c.rules
}

// ClassifyAll classifies every record. Results come back in input order.
func (c *Classifier) ClassifyAll(records []ArtistRecord) ([]ClassifiedArtist, error) {
	key := SnapshotKey(records, c.rules)
	cached, ok, err := c.cache.Load(key)
	if err != nil {
		return nil, fmt.Errorf("loading cached classifications: %w", err)
	}
	if ok {
		c.logger.Debug("classification cache hit", "snapshot", key[:12], "artists", len(records))
		return c.fromCache(records, cached)
	}

	out := make([]ClassifiedArtist, 0, len(records))
	labels := make(map[string]BroadGenre, len(records))
	malformed := 0
	for _, r := range records {
		res, err := Evaluate(r, c.rules)
		if err != nil {
			var mErr *MalformedInputError
			if c.strict || !errors.As(err, &mErr) {
				return nil, fmt.Errorf("classifying %q: %w", r.Name, err)
			}
			c.logger.Warn("degrading malformed genre list to No Genre", "artist", r.Name, "error", err)
			malformed++
			res = Result{BroadGenre: NoGenre}
		}
		out = append(out, ClassifiedArtist{ArtistRecord: r, Genres: res.Genres, BroadGenre: res.BroadGenre})
		labels[r.Name] = res.BroadGenre
	}

	if err := c.cache.Save(key, labels); err != nil {
		return nil, fmt.Errorf("saving classifications: %w", err)
	}
	c.logger.Info("classified artists", "artists", len(records), "malformed", malformed)
	return out, nil
}

func (c *Classifier) fromCache(records []ArtistRecord, labels map[string]BroadGenre) ([]ClassifiedArtist, error) {
	out := make([]ClassifiedArtist, 0, len(records))
	for _, r := range records {
		label, ok := labels[r.Name]
		if !ok {
			return nil, fmt.Errorf("cached snapshot is missing artist %q", r.Name)
		}
		genres, err := ParseRawGenres(r.Raw)
		if err != nil && c.strict {
			return nil, fmt.Errorf("classifying %q: %w", r.Name, err)
		}
		out = append(out, ClassifiedArtist{ArtistRecord: r, Genres: genres, BroadGenre: label})
	}
	return out, nil
}
