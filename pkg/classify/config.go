package classify

// Config names the heuristic thresholds the classifier runs with.
// The defaults are product-tuned; changing them changes which listings
// are accepted.
type Config struct {
	// MixedLotMinCount: a title advertising at least this many units
	// together with a lot keyword is treated as a mixed bundle.
	MixedLotMinCount int

	// MaxVolume is the exclusive upper bound for plausible volume
	// numbers. Anything at or above it is noise (issue numbers,
	// years, prices misread as volumes).
	MaxVolume int

	// DefaultOmnibusVolumes is assumed for omnibus listings that name
	// no volume numbers at all.
	DefaultOmnibusVolumes int
}

// DefaultHeuristics returns the shipped threshold values.
func DefaultHeuristics() Config {
	return Config{
		MixedLotMinCount:      16,
		MaxVolume:             200,
		DefaultOmnibusVolumes: 3,
	}
}
