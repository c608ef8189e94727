package classify

import "strings"

// Corpus is an immutable set of known series names consulted by the
// mixed-lot detector. Names are matched lowercase.
type Corpus struct {
	names []string
}

// NewCorpus builds a corpus from the given names, lowercased and
// deduplicated. Order is preserved for deterministic detection.
func NewCorpus(names ...string) Corpus {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return Corpus{names: out}
}

// With returns a new corpus extended with extra names.
func (c Corpus) With(extra ...string) Corpus {
	return NewCorpus(append(append([]string{}, c.names...), extra...)...)
}

// Names returns a copy of the corpus contents.
func (c Corpus) Names() []string {
	return append([]string{}, c.names...)
}

// DefaultCorpus returns the curated set of series names that commonly
// appear alongside a target series in mixed bundle listings.
func DefaultCorpus() Corpus {
	return NewCorpus(
		"one piece", "bleach", "demon slayer", "attack on titan", "my hero academia",
		"dragon ball", "chainsaw man", "tokyo ghoul", "jujutsu kaisen", "death note",
		"spy x family", "berserk", "vinland saga", "fullmetal alchemist", "hunter x hunter",
		"mob psycho 100", "seraph of the end", "blame!", "soul eater", "sailor moon",
		"yu-gi-oh", "blue exorcist", "fruits basket", "ouran high school host club",
		"d-n-angel", "kamichama karin", "noragami", "love attack", "hands off",
	)
}
