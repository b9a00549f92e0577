// Package mockdata generates deterministic fixture records for every
// back-office table from a single seeded source.
package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// epoch anchors generated timestamps so output does not depend on the clock.
var epoch = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// Generator is a seeded random source with helpers for fixture fields.
// The same seed always produces the same sequence of values.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds n records of one shape.
func Generate[T any](g *Generator, n int, build func(g *Generator, i int) T) []T {
	out := make([]T, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, build(g, i))
	}
	return out
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rng.Intn(n)
}

// Between returns an integer in [lo, hi].
func (g *Generator) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// Amount returns a value in [lo, hi) rounded to cents.
func (g *Generator) Amount(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}

// Chance reports true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}

// Pick returns one of the options.
func Pick[T any](g *Generator, options ...T) T {
	return options[g.Intn(len(options))]
}

// Time returns a timestamp up to span after the generator epoch.
func (g *Generator) Time(span time.Duration) time.Time {
	if span <= 0 {
		return epoch
	}
	return epoch.Add(time.Duration(g.rng.Int63n(int64(span))))
}

// ID returns a prefixed identifier derived from the seeded stream.
func (g *Generator) ID(prefix string) string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(err)
	}
	return prefix + "_" + strings.ReplaceAll(id.String(), "-", "")[:12]
}

// Digits returns n random decimal digits.
func (g *Generator) Digits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.Intn(10)))
	}
	return b.String()
}

var (
	firstNames = []string{"Amara", "Bilal", "Chen", "Dmitri", "Elena", "Farah", "Gustavo", "Hana", "Ibrahim", "Jonas", "Keiko", "Lucas", "Maya", "Nikolai", "Olivia", "Priya", "Rafael", "Sofia", "Tomasz", "Yara"}
	lastNames  = []string{"Adeyemi", "Berg", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia", "Haddad", "Ivanova", "Jensen", "Kowalski", "Lindqvist", "Moreau", "Nakamura", "Okafor", "Petrov", "Rossi", "Silva", "Tanaka", "Weber"}
	countries  = []string{"DE", "FR", "GB", "NG", "BR", "JP", "IN", "AE", "PL", "SE", "US", "ES"}
	domains    = []string{"example.com", "mail.test", "inbox.test", "corp.example"}
)

// Name returns a full person name.
func (g *Generator) Name() string {
	return Pick(g, firstNames...) + " " + Pick(g, lastNames...)
}

// Email derives an address from a person name.
func (g *Generator) Email(name string) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s%d@%s", local, g.Intn(100), Pick(g, domains...))
}

// Country returns an ISO 3166 alpha-2 code.
func (g *Generator) Country() string {
	return Pick(g, countries...)
}
