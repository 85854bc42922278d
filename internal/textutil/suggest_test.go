package textutil

import (
	"testing"

	"github.com/go-test/deep"
)

var suggestCandidates = []string{"Road Trip", "Chill", "Workout", "Chill Out", "90s Music"}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"subsequence", "Road Trp", 3, []string{"Road Trip"}},
		{"case folded", "roadtrip", 3, []string{"Road Trip"}},
		{"word order", "Trip Road", 3, []string{"Road Trip"}},
		{"typo", "Workuot", 3, []string{"Workout"}},
		{"prefix ranks shorter first", "Chil", 0, []string{"Chill", "Chill Out"}},
		{"limit", "Chil", 1, []string{"Chill"}},
		{"no match", "Zydeco Classics", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.query, suggestCandidates, tt.limit)
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Fatalf("Suggest(%q) mismatch: %v", tt.query, diff)
			}
		})
	}
}

func TestSuggestSkipsExactName(t *testing.T) {
	if got := Suggest("Chill", []string{"Chill"}, 0); len(got) != 0 {
		t.Fatalf("expected no suggestions for an exact name, got %v", got)
	}
	if got := Suggest("", suggestCandidates, 0); got != nil {
		t.Fatalf("expected nil for empty name, got %v", got)
	}
}
