package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The volume grammar is an ordered rule list with explicit precedence:
// prefixed range > prefixed single > standalone range > standalone
// single. Rules run in order over the text; every successful match
// claims its span and lower-precedence rules skip anything overlapping
// a claimed span. regexp has no lookarounds, so the boundary guards of
// the standalone rules are context predicates over the runes around a
// match instead.

// VolumeRule is one grammar rule. A match can be rejected by a context
// guard (it then claims nothing) or accepted but contribute no volumes
// when the numbers fall outside the plausibility bounds.
type VolumeRule struct {
	Name string
	re   *regexp.Regexp

	// extract returns the volumes for the submatch-index slice m and
	// whether the match stands after context guards.
	extract func(cfg Config, text, seriesGuard string, m []int) ([]int, bool)
}

// FindAll applies this rule alone to text, ignoring precedence.
func (r VolumeRule) FindAll(cfg Config, text, seriesGuard string) []int {
	set := make(map[int]bool)
	for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
		vols, ok := r.extract(cfg, text, seriesGuard, m)
		if !ok {
			continue
		}
		for _, v := range vols {
			set[v] = true
		}
	}
	return sortedVolumes(set)
}

var (
	prefixedRangeRe  = regexp.MustCompile(`(?i)(?:vol(?:ume)?s?\.?|#)\s*(\d+)\s*-\s*(\d+)`)
	prefixedSingleRe = regexp.MustCompile(`(?i)(?:vol(?:ume)?s?\.?|#)\s*(\d+)`)
	standaloneRange  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	standaloneSingle = regexp.MustCompile(`\d{1,3}`)

	// Suffixes that mark a standalone number as something other than a
	// volume: "3 in 1", ordinals, ratios, paths, decimals.
	singleSuffixGuard = regexp.MustCompile(`^\s*(?:(?:in|st|nd|rd|th)\b|[:/][0-9A-Za-z_]|\.[0-9])`)
	rangeAhead        = regexp.MustCompile(`^\s*-\s*[0-9]`)
)

// Grammar returns the ordered rule list.
func Grammar() []VolumeRule {
	return []VolumeRule{
		{
			Name: "prefixed-range",
			re:   prefixedRangeRe,
			extract: func(cfg Config, text, _ string, m []int) ([]int, bool) {
				return rangeVolumes(cfg, text[m[2]:m[3]], text[m[4]:m[5]]), true
			},
		},
		{
			Name: "prefixed-single",
			re:   prefixedSingleRe,
			extract: func(cfg Config, text, _ string, m []int) ([]int, bool) {
				return singleVolume(cfg, text[m[2]:m[3]]), true
			},
		},
		{
			Name: "standalone-range",
			re:   standaloneRange,
			extract: func(cfg Config, text, _ string, m []int) ([]int, bool) {
				if wordBefore(text, m[0]) || wordAfter(text, m[1]) {
					return nil, false
				}
				return rangeVolumes(cfg, text[m[2]:m[3]], text[m[4]:m[5]]), true
			},
		},
		{
			Name: "standalone-single",
			re:   standaloneSingle,
			extract: func(cfg Config, text, seriesGuard string, m []int) ([]int, bool) {
				if numberBefore(text, m[0]) || numberAfter(text, m[1]) {
					return nil, false
				}
				rest := text[m[1]:]
				if rangeAhead.MatchString(rest) || singleSuffixGuard.MatchString(rest) {
					return nil, false
				}
				digits := text[m[0]:m[1]]
				// A series whose name is itself a number must not count
				// its own name as a volume.
				if seriesGuard != "" && strings.TrimSpace(strings.ToLower(seriesGuard)) == digits {
					return nil, true
				}
				return singleVolume(cfg, digits), true
			},
		},
	}
}

// ExtractVolumes runs the full grammar over text and returns the
// distinct plausible volume numbers, sorted ascending. seriesGuard is
// the target series name (may be empty for description text).
func ExtractVolumes(cfg Config, text, seriesGuard string) []int {
	set := make(map[int]bool)
	var claimed [][2]int
	for _, rule := range Grammar() {
		for _, m := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			if overlapsAny(claimed, m[0], m[1]) {
				continue
			}
			vols, ok := rule.extract(cfg, text, seriesGuard, m)
			if !ok {
				continue
			}
			claimed = append(claimed, [2]int{m[0], m[1]})
			for _, v := range vols {
				set[v] = true
			}
		}
	}
	return sortedVolumes(set)
}

// rangeVolumes expands "s-e" into its members when 0 < s <= e < max.
// Malformed or implausible endpoints contribute nothing.
func rangeVolumes(cfg Config, startText, endText string) []int {
	start, err1 := strconv.Atoi(startText)
	end, err2 := strconv.Atoi(endText)
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || start > end || end >= cfg.MaxVolume {
		return nil
	}
	vols := make([]int, 0, end-start+1)
	for v := start; v <= end; v++ {
		vols = append(vols, v)
	}
	return vols
}

func singleVolume(cfg Config, digits string) []int {
	v, err := strconv.Atoi(digits)
	if err != nil || v <= 0 || v >= cfg.MaxVolume {
		return nil
	}
	return []int{v}
}

func overlapsAny(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && c[0] < end {
			return true
		}
	}
	return false
}

func sortedVolumes(set map[int]bool) []int {
	vols := make([]int, 0, len(set))
	for v := range set {
		vols = append(vols, v)
	}
	sort.Ints(vols)
	return vols
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r)
}

func wordAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

// numberBefore/numberAfter additionally treat a hyphen as adjacency,
// so digits inside ranges or hyphenated tokens never count alone.
func numberBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r) || r == '-'
}

func numberAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r) || r == '-'
}
