// Package classify decides what a marketplace listing title actually
// describes: how many volumes, what packaging format, and whether it
// bundles unrelated series. Pure functions over text, no I/O.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mangashelf/pricescout/models"
)

// Merchandise terms that mark a listing as not-a-book regardless of
// anything else in the title.
var exclusionKeywords = []string{
	"figure", "poster", "keychain", "plush", "shirt", "box set art",
	"dvd", "blu-ray", "game", "card", "sticker", "art book", "soundtrack",
	"cel", "guide", "magazine", "calendar", "funko", "statue", "cosplay",
	"doujinshi", "doujin",
}

var lotKeywords = []string{
	"lot", "bundle", "collection", "set", "various", "assorted", "manga mix", "bulk",
}

var (
	omnibusRe     = regexp.MustCompile(`(?i)omnibus|\d-in-\d|vizbig|big edition|collector'?s? edition`)
	numberOrRange = regexp.MustCompile(`(\d+)\s*-\s*(\d+)|(\d+)`)
	bareNumberRe  = regexp.MustCompile(`\b\d+\b`)
	nonWordRe     = regexp.MustCompile(`\W+`)
	countedBundle = regexp.MustCompile(`(\d{2,})\s+(?:manga|book|volume|graphic novel)s?\s+(?:` + strings.Join(lotKeywords, "|") + `)`)
)

// Classifier applies the title heuristics with a fixed threshold
// config and known-series corpus.
type Classifier struct {
	cfg    Config
	corpus Corpus
}

func New(cfg Config, corpus Corpus) *Classifier {
	return &Classifier{cfg: cfg, corpus: corpus}
}

// Config returns the classifier's threshold configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify reduces a listing title to a volume count, format and
// ambiguity flag for the given target series.
func (c *Classifier) Classify(title, targetSeries string) models.ClassificationResult {
	lower := strings.ToLower(title)
	seriesLower := strings.ToLower(targetSeries)

	for _, kw := range exclusionKeywords {
		if strings.Contains(lower, kw) {
			return models.ClassificationResult{Format: models.FormatExclude}
		}
	}

	if omnibusRe.MatchString(lower) {
		return models.ClassificationResult{
			NumVolumes: c.omnibusCount(title, lower),
			Format:     models.FormatOmnibus,
		}
	}

	vols := ExtractVolumes(c.cfg, title, targetSeries)
	switch {
	case len(vols) > 1:
		return models.ClassificationResult{NumVolumes: len(vols), Format: models.FormatLot}
	case len(vols) == 1:
		return models.ClassificationResult{NumVolumes: 1, Format: models.FormatSingle}
	}

	// No explicit volumes. A title that still names the series next to
	// a generic context word or a bare number is an ambiguous
	// single-volume guess; anything else is irrelevant.
	if strings.Contains(lower, seriesLower) &&
		(strings.Contains(lower, "volume") || strings.Contains(lower, "manga") || bareNumberRe.MatchString(title)) {
		return models.ClassificationResult{NumVolumes: 1, Format: models.FormatSingle, Ambiguous: true}
	}
	return models.ClassificationResult{Format: models.FormatExclude}
}

// omnibusCount estimates how many volumes an omnibus listing bundles.
func (c *Classifier) omnibusCount(title, lower string) int {
	set := make(map[int]bool)
	for _, m := range numberOrRange.FindAllStringSubmatch(title, -1) {
		if m[1] != "" {
			for _, v := range rangeVolumes(c.cfg, m[1], m[2]) {
				set[v] = true
			}
		} else if m[3] != "" {
			for _, v := range singleVolume(c.cfg, m[3]) {
				set[v] = true
			}
		}
	}

	switch {
	case len(set) > 1:
		return len(set)
	case strings.Contains(lower, "3-in-1") || strings.Contains(lower, "three-in-one"):
		return 3
	case len(set) == 0:
		// Unlabeled omnibus listings are assumed to bundle the
		// editorial default.
		return c.cfg.DefaultOmnibusVolumes
	default:
		return 1
	}
}

// IsMixedLot reports whether a title likely describes a bundle of
// multiple unrelated series.
func (c *Classifier) IsMixedLot(title, targetSeries string) bool {
	lower := strings.ToLower(title)
	seriesLower := strings.ToLower(targetSeries)

	if m := countedBundle.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= c.cfg.MixedLotMinCount {
			return true
		}
	}

	mentioned := []string{}
	normalizedTarget := nonWordRe.ReplaceAllString(seriesLower, "")
	if strings.Contains(lower, seriesLower) {
		mentioned = append(mentioned, seriesLower)
	}

	for _, other := range c.corpus.names {
		normalizedOther := nonWordRe.ReplaceAllString(other, "")
		if !strings.Contains(lower, other) || normalizedOther == normalizedTarget {
			continue
		}
		// Suppress mentions that nest inside an already-counted name,
		// so "db" and "dragon ball" never count as two series.
		nested := false
		for _, existing := range mentioned {
			if strings.Contains(existing, other) || strings.Contains(other, existing) {
				nested = true
				break
			}
		}
		if nested {
			continue
		}
		mentioned = append(mentioned, other)
		if len(mentioned) > 1 {
			return true
		}
	}
	return len(mentioned) > 1
}
