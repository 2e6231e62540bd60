package credential

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ErrUnknownType is returned when a credential type is not registered in
// the pattern database.
var ErrUnknownType = errors.New("unknown credential type")

// maxAttempts bounds the dedup retry loop before accepting a collision.
const maxAttempts = 10

// Generator produces credential values matching the database patterns.
// The dedup set is shared across workers and guarded internally, so one
// Generator can serve a whole batch.
type Generator struct {
	db *Database

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewGenerator creates a generator over a pattern database.
func NewGenerator(db *Database) *Generator {
	return &Generator{
		db:   db,
		seen: make(map[string]struct{}),
	}
}

// Types lists the registered credential types.
func (g *Generator) Types() []string {
	return g.db.Types()
}

// Generate produces one synthetic credential of the given type. The seed
// makes the value reproducible per job; values are deduplicated within the
// generator's lifetime.
func (g *Generator) Generate(ctx context.Context, credType string, seed uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pattern, err := g.db.Pattern(credType)
	if err != nil {
		return "", err
	}

	// Mix the type into the seed so two types requested by the same job
	// do not walk identical random sequences.
	rng := rand.New(rand.NewSource(int64(seed ^ xxhash.Sum64String(credType))))

	var value string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		value, err = expand(pattern, rng)
		if err != nil {
			return "", fmt.Errorf("expanding pattern for %s: %w", credType, err)
		}

		g.mu.Lock()
		_, dup := g.seen[value]
		if !dup {
			g.seen[value] = struct{}{}
		}
		g.mu.Unlock()

		if !dup {
			return value, nil
		}
	}

	// Exhausted retries: the pattern space is too small to avoid repeats.
	return value, nil
}

// expand generates a string matching a constrained regex subset: literals,
// escapes (\d \w \s and escaped metacharacters), character classes with
// ranges, groups with alternation, and the quantifiers {n}, {n,m}, ?, + and
// *. Anchors are accepted and ignored. Negated classes, backreferences and
// lookaround are unsupported.
func expand(pattern string, rng *rand.Rand) (string, error) {
	p := &patternParser{pattern: pattern, rng: rng}
	gen, err := p.alternation()
	if err != nil {
		return "", err
	}
	if p.pos != len(p.pattern) {
		return "", fmt.Errorf("unexpected %q at offset %d", p.pattern[p.pos], p.pos)
	}
	return gen(), nil
}

type patternParser struct {
	pattern string
	pos     int
	rng     *rand.Rand
}

// Bounded repeat count for the open-ended + and * quantifiers.
const unboundedRepeatMax = 8

const (
	digitChars = "0123456789"
	wordChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"
	anyChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

func (p *patternParser) alternation() (func() string, error) {
	var branches []func() string
	for {
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		branches = append(branches, seq)
		if p.pos < len(p.pattern) && p.pattern[p.pos] == '|' {
			p.pos++
			continue
		}
		break
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return func() string {
		return branches[p.rng.Intn(len(branches))]()
	}, nil
}

func (p *patternParser) sequence() (func() string, error) {
	var parts []func() string
	for p.pos < len(p.pattern) {
		c := p.pattern[p.pos]
		if c == '|' || c == ')' {
			break
		}
		atom, err := p.atom()
		if err != nil {
			return nil, err
		}
		if atom == nil { // anchor
			continue
		}
		atom, err = p.quantified(atom)
		if err != nil {
			return nil, err
		}
		parts = append(parts, atom)
	}
	return func() string {
		var b strings.Builder
		for _, part := range parts {
			b.WriteString(part())
		}
		return b.String()
	}, nil
}

func (p *patternParser) atom() (func() string, error) {
	switch c := p.pattern[p.pos]; c {
	case '^', '$':
		p.pos++
		return nil, nil
	case '(':
		p.pos++
		inner, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.pattern) || p.pattern[p.pos] != ')' {
			return nil, fmt.Errorf("unclosed group at offset %d", p.pos)
		}
		p.pos++
		return inner, nil
	case '[':
		return p.class()
	case '\\':
		return p.escape()
	case '.':
		p.pos++
		return p.pick(anyChars), nil
	case '*', '+', '?', '{', ')':
		return nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
	default:
		p.pos++
		return func() string { return string(c) }, nil
	}
}

func (p *patternParser) escape() (func() string, error) {
	p.pos++
	if p.pos >= len(p.pattern) {
		return nil, fmt.Errorf("trailing backslash")
	}
	c := p.pattern[p.pos]
	p.pos++
	switch c {
	case 'd':
		return p.pick(digitChars), nil
	case 'w':
		return p.pick(wordChars), nil
	case 's':
		return func() string { return " " }, nil
	case 'n':
		return func() string { return "\n" }, nil
	case 't':
		return func() string { return "\t" }, nil
	default:
		// Escaped metacharacter stands for itself.
		return func() string { return string(c) }, nil
	}
}

func (p *patternParser) class() (func() string, error) {
	start := p.pos
	p.pos++ // consume '['
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '^' {
		return nil, fmt.Errorf("negated class at offset %d is unsupported", start)
	}

	var choices []byte
	for p.pos < len(p.pattern) && p.pattern[p.pos] != ']' {
		c := p.pattern[p.pos]
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.pattern) {
				return nil, fmt.Errorf("trailing backslash in class")
			}
			switch e := p.pattern[p.pos]; e {
			case 'd':
				choices = append(choices, digitChars...)
			case 'w':
				choices = append(choices, wordChars...)
			default:
				choices = append(choices, e)
			}
			p.pos++
			continue
		}
		// Range like a-z, unless '-' is last before ']'.
		if p.pos+2 < len(p.pattern) && p.pattern[p.pos+1] == '-' && p.pattern[p.pos+2] != ']' {
			lo, hi := c, p.pattern[p.pos+2]
			if lo > hi {
				return nil, fmt.Errorf("invalid range %c-%c in class at offset %d", lo, hi, start)
			}
			for b := lo; b <= hi; b++ {
				choices = append(choices, b)
			}
			p.pos += 3
			continue
		}
		choices = append(choices, c)
		p.pos++
	}
	if p.pos >= len(p.pattern) {
		return nil, fmt.Errorf("unclosed class at offset %d", start)
	}
	p.pos++ // consume ']'
	if len(choices) == 0 {
		return nil, fmt.Errorf("empty class at offset %d", start)
	}
	return p.pick(string(choices)), nil
}

func (p *patternParser) quantified(atom func() string) (func() string, error) {
	if p.pos >= len(p.pattern) {
		return atom, nil
	}
	var lo, hi int
	switch p.pattern[p.pos] {
	case '{':
		end := strings.IndexByte(p.pattern[p.pos:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unclosed quantifier at offset %d", p.pos)
		}
		spec := p.pattern[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if comma := strings.IndexByte(spec, ','); comma >= 0 {
			if _, err := fmt.Sscanf(spec, "%d,%d", &lo, &hi); err != nil {
				return nil, fmt.Errorf("invalid quantifier {%s}", spec)
			}
		} else {
			if _, err := fmt.Sscanf(spec, "%d", &lo); err != nil {
				return nil, fmt.Errorf("invalid quantifier {%s}", spec)
			}
			hi = lo
		}
		if lo < 0 || hi < lo {
			return nil, fmt.Errorf("invalid quantifier {%s}", spec)
		}
	case '?':
		p.pos++
		lo, hi = 0, 1
	case '+':
		p.pos++
		lo, hi = 1, unboundedRepeatMax
	case '*':
		p.pos++
		lo, hi = 0, unboundedRepeatMax
	default:
		return atom, nil
	}

	return func() string {
		n := lo
		if hi > lo {
			n += p.rng.Intn(hi - lo + 1)
		}
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString(atom())
		}
		return b.String()
	}, nil
}

func (p *patternParser) pick(choices string) func() string {
	return func() string {
		return string(choices[p.rng.Intn(len(choices))])
	}
}
