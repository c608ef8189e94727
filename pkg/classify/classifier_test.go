package classify

import (
	"testing"

	"github.com/mangashelf/pricescout/models"
)

func newTestClassifier() *Classifier {
	return New(DefaultHeuristics(), DefaultCorpus())
}

func TestClassifyExclusionKeywords(t *testing.T) {
	c := newTestClassifier()

	titles := []string{
		"Naruto figure vol 3",
		"Naruto POSTER set 1-5",
		"Naruto complete DVD collection",
		"Naruto art book deluxe",
		"Naruto doujinshi rare",
	}
	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			got := c.Classify(title, "Naruto")
			want := models.ClassificationResult{NumVolumes: 0, Format: models.FormatExclude, Ambiguous: false}
			if got != want {
				t.Errorf("Classify(%q) = %+v, want %+v", title, got, want)
			}
		})
	}
}

func TestClassifyOmnibus(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name  string
		title string
		want  models.ClassificationResult
	}{
		{
			name:  "explicit volumes",
			title: "Naruto Omnibus containing 1 2 3",
			want:  models.ClassificationResult{NumVolumes: 3, Format: models.FormatOmnibus},
		},
		{
			name:  "range of volumes",
			title: "Naruto VIZBIG 1-9",
			want:  models.ClassificationResult{NumVolumes: 9, Format: models.FormatOmnibus},
		},
		{
			name:  "spelled out three in one",
			title: "Naruto Omnibus three-in-one",
			want:  models.ClassificationResult{NumVolumes: 3, Format: models.FormatOmnibus},
		},
		{
			// The digits of "3-in-1" are two distinct volume numbers,
			// and cardinality wins over the marker.
			name:  "digit three in one counts digits",
			title: "Naruto 3-in-1 Edition",
			want:  models.ClassificationResult{NumVolumes: 2, Format: models.FormatOmnibus},
		},
		{
			name:  "no numbers defaults to three",
			title: "Naruto Omnibus english",
			want:  models.ClassificationResult{NumVolumes: 3, Format: models.FormatOmnibus},
		},
		{
			name:  "single number",
			title: "Naruto Omnibus 4",
			want:  models.ClassificationResult{NumVolumes: 1, Format: models.FormatOmnibus},
		},
		{
			name:  "collectors edition",
			title: "Naruto Collector's Edition 2 4 6 8",
			want:  models.ClassificationResult{NumVolumes: 4, Format: models.FormatOmnibus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title, "Naruto")
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifyVolumeGrammar(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name  string
		title string
		want  models.ClassificationResult
	}{
		{
			name:  "prefixed range lot",
			title: "Naruto Manga Vol. 1-5",
			want:  models.ClassificationResult{NumVolumes: 5, Format: models.FormatLot},
		},
		{
			name:  "single volume",
			title: "Naruto Volume 3",
			want:  models.ClassificationResult{NumVolumes: 1, Format: models.FormatSingle},
		},
		{
			name:  "distinct singles make a lot",
			title: "Naruto vol 2 vol 5 vol 9",
			want:  models.ClassificationResult{NumVolumes: 3, Format: models.FormatLot},
		},
		{
			name:  "standalone number single",
			title: "Naruto 12 english manga",
			want:  models.ClassificationResult{NumVolumes: 1, Format: models.FormatSingle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title, "Naruto")
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifyAmbiguousFallback(t *testing.T) {
	c := newTestClassifier()

	// Series plus a generic context word but no usable volume number.
	got := c.Classify("Naruto manga english complete", "Naruto")
	want := models.ClassificationResult{NumVolumes: 1, Format: models.FormatSingle, Ambiguous: true}
	if got != want {
		t.Errorf("Classify = %+v, want %+v", got, want)
	}

	// Neither context word nor number: irrelevant listing.
	got = c.Classify("Something else entirely", "Naruto")
	want = models.ClassificationResult{Format: models.FormatExclude}
	if got != want {
		t.Errorf("Classify = %+v, want %+v", got, want)
	}
}

func TestIsMixedLot(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name   string
		title  string
		series string
		want   bool
	}{
		{"two known series", "Naruto and One Piece Manga Lot", "Naruto", true},
		{"single series lot", "Naruto Vol 1-5 Lot", "Naruto", false},
		{"counted bundle", "30 manga lot assorted", "Naruto", true},
		{"counted bundle below cutoff", "12 manga lot", "Naruto", false},
		{"unit word required", "30 items lot", "Naruto", false},
		{"target only", "Naruto huge collection", "Naruto", false},
		{"two others without target", "Bleach and Berserk bundle", "Naruto", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsMixedLot(tt.title, tt.series); got != tt.want {
				t.Errorf("IsMixedLot(%q, %q) = %v, want %v", tt.title, tt.series, got, tt.want)
			}
		})
	}
}

func TestIsMixedLotSubstringSuppression(t *testing.T) {
	// A corpus with nested names must not count "dragon ball" and
	// "dragon ball z" as two different series.
	c := New(DefaultHeuristics(), NewCorpus("dragon ball", "dragon ball z"))

	if c.IsMixedLot("dragon ball z lot", "Naruto") {
		t.Error("nested corpus names counted as separate series")
	}
}

func TestCorpusWith(t *testing.T) {
	base := NewCorpus("one piece")
	extended := base.With("akira", "ONE PIECE")

	names := extended.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names after dedup, got %v", names)
	}
	if len(base.Names()) != 1 {
		t.Error("With mutated the base corpus")
	}
}
