package mainstream

import (
	"testing"

	"curator/internal/config"
)

func testClassifier() *Classifier {
	return New(config.Mainstream{
		Countries:            []string{"us", "GB"},
		Genres:               []string{"Action", "comedy"},
		Cast:                 []string{"Harrison Ford"},
		StrongSignals:        []string{"IMAX", "4k restoration"},
		ExploitationKeywords: []string{"Cannibal"},
		PopularityThreshold:  10,
		VoteThreshold:        1000,
	})
}

func TestClassifyRules(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name    string
		signals Signals
		want    bool
	}{
		{"country genre cast", Signals{Title: "Raiders", Year: 1981, Countries: []string{"US"}, Genres: []string{"action"}, Cast: []string{"harrison  ford"}}, true},
		{"country genre popular by votes", Signals{Title: "Comedy", Year: 1999, Countries: []string{"GB"}, Genres: []string{"Comedy"}, VoteCount: 5000}, true},
		{"country genre strong", Signals{Title: "Epic", Year: 2010, Countries: []string{"US"}, Genres: []string{"action"}, FormatSignals: []string{"imax"}}, true},
		{"strong and popular", Signals{Title: "Art", Year: 1960, Countries: []string{"FR"}, Genres: []string{"drama"}, FormatSignals: []string{"4K Restoration"}, Popularity: 12}, true},
		{"country genre only", Signals{Title: "Plain", Year: 2000, Countries: []string{"US"}, Genres: []string{"comedy"}}, false},
		{"strong only", Signals{Title: "Restored", Year: 1970, FormatSignals: []string{"imax"}}, false},
		{"popular foreign drama", Signals{Title: "Hit", Year: 2005, Countries: []string{"FR"}, Genres: []string{"drama"}, Popularity: 50}, false},
		{"exploitation title excluded", Signals{Title: "Cannibal Holocaust", Year: 1980, Countries: []string{"US"}, Genres: []string{"action"}, Popularity: 99, FormatSignals: []string{"imax"}}, false},
		{"no year", Signals{Title: "Raiders", Countries: []string{"US"}, Genres: []string{"action"}, Popularity: 99}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.signals)
			if got.Mainstream != tt.want {
				t.Fatalf("Classify(%+v) = %+v, want mainstream=%v", tt.signals, got, tt.want)
			}
		})
	}
}

func TestClassifyRecordsExclusionAndSignals(t *testing.T) {
	c := testClassifier()
	v := c.Classify(Signals{Title: "Cannibal Ferox", Year: 1981, Countries: []string{"US"}, Genres: []string{"action"}, Popularity: 30})
	if v.Excluded != "cannibal" || !v.Country || !v.Genre || !v.Popular {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if noYear := c.Classify(Signals{Title: "X"}); !noYear.NoYear {
		t.Fatalf("expected NoYear, got %+v", noYear)
	}
}
