// Package scoring assigns deterministic quality scores to content items.
// A score is a pure function of the item's payload plus (optionally) an
// external served-count signal; calling Score twice on the same item yields
// the same result.
package scoring

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"memeforge/internal/models"
)

const (
	// BaseScore is the midpoint every item starts from before adjustments.
	BaseScore = 7.0
	// MinScore and MaxScore bound the presented value.
	MinScore = 5.0
	MaxScore = 10.0

	// DefaultTargetLength is the character budget of the target platform.
	DefaultTargetLength = 240
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	htmlEntityPattern = regexp.MustCompile(`&[a-zA-Z]+;|&#\d+;`)
	placeholderToken  = regexp.MustCompile(`\{[a-zA-Z_]+\}|\[(?:deleted|removed|spoiler)\]`)
	bareLinkPattern   = regexp.MustCompile(`https?://\S+`)
)

// CategoryCounter supplies how many times a category has been served
// recently. It is external state injected into the scorer, never owned by
// it, so scoring itself stays side-effect free.
type CategoryCounter interface {
	ServedCount(category string) int
}

// Scorer applies a fixed, ordered list of heuristics, each contributing a
// bounded delta to the base score.
type Scorer struct {
	targetLength int
	tokenizer    *sentences.DefaultSentenceTokenizer
	counter      CategoryCounter // nil disables the novelty bonus
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTargetLength overrides the platform character budget.
func WithTargetLength(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.targetLength = n
		}
	}
}

// WithCategoryCounter enables the novelty bonus for under-served categories.
func WithCategoryCounter(c CategoryCounter) Option {
	return func(s *Scorer) { s.counter = c }
}

// NewScorer builds a scorer with the default heuristic set.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		targetLength: DefaultTargetLength,
		tokenizer:    newEnglishTokenizer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newEnglishTokenizer loads the tokenizer from the embedded English Punkt
// training data; the base constructor with a nil Storage panics on use.
func newEnglishTokenizer() *sentences.DefaultSentenceTokenizer {
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		panic(err) // embedded asset; cannot fail at runtime
	}
	return t
}

// Score evaluates one item. The returned Value is clamped to
// [MinScore, MaxScore]; Raw keeps the unclamped sum so callers can apply a
// threshold that strong penalties are actually able to cross.
func (s *Scorer) Score(item models.ContentItem) models.ScoreResult {
	raw := BaseScore
	var adjustments []models.Adjustment

	apply := func(heuristic string, delta float64) {
		if delta == 0 {
			return
		}
		raw += delta
		adjustments = append(adjustments, models.Adjustment{Heuristic: heuristic, Delta: delta})
	}

	text := strings.TrimSpace(item.Body)

	apply("length", s.lengthDelta(text))
	apply("banned_pattern", bannedPatternDelta(text))
	apply("repetition", lexicalRepetitionDelta(text))
	apply("structure", s.structureDelta(text))
	if s.counter != nil {
		apply("novelty", noveltyDelta(s.counter.ServedCount(item.Category)))
	}

	value := raw
	if value < MinScore {
		value = MinScore
	}
	if value > MaxScore {
		value = MaxScore
	}

	return models.ScoreResult{Value: value, Raw: raw, Adjustments: adjustments}
}

// lengthDelta penalizes items far off the platform budget and mildly
// rewards a comfortable fit.
func (s *Scorer) lengthDelta(text string) float64 {
	n := len([]rune(text))
	switch {
	case n < 20:
		return -1.5
	case n > 2*s.targetLength:
		return -1.0
	case n >= 60 && n <= s.targetLength:
		return 0.5
	default:
		return 0
	}
}

// bannedPatternDelta is the strong penalty for markup and placeholder
// residue that survived ingestion; such items should sink below the
// acceptance threshold in one step.
func bannedPatternDelta(text string) float64 {
	if htmlTagPattern.MatchString(text) ||
		htmlEntityPattern.MatchString(text) ||
		placeholderToken.MatchString(text) {
		return -3.0
	}
	if bareLinkPattern.MatchString(text) {
		return -1.5
	}
	return 0
}

// lexicalRepetitionDelta penalizes text that repeats itself. Unique-word
// ratio is crude but deterministic and cheap.
func lexicalRepetitionDelta(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 8 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(words))
	switch {
	case ratio < 0.35:
		return -2.0
	case ratio < 0.5:
		return -1.0
	default:
		return 0
	}
}

// structureDelta rewards content shaped like one to four sentences and
// penalizes run-on walls of text.
func (s *Scorer) structureDelta(text string) float64 {
	if text == "" {
		return 0
	}
	count := 0
	for _, sent := range s.tokenizer.Tokenize(text) {
		if strings.TrimSpace(sent.Text) != "" {
			count++
		}
	}
	switch {
	case count >= 1 && count <= 4:
		return 0.5
	case count > 8:
		return -0.5
	default:
		return 0
	}
}

// noveltyDelta grants a small bonus to categories that have barely been
// served within the counting window.
func noveltyDelta(served int) float64 {
	if served == 0 {
		return 0.5
	}
	return 0
}
