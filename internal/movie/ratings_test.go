package movie

import (
	"reflect"
	"testing"
)

func TestParseRatings_WellFormed(t *testing.T) {
	raw := "[{'Source': 'Internet Movie Database', 'Value': '8.1/10'}, " +
		"{'Source': 'Rotten Tomatoes', 'Value': '95%'}, " +
		"{'Source': 'Metacritic', 'Value': '80/100'}]"

	got := ParseRatings(raw)
	want := []Rating{
		{Source: SourceIMDb, Value: "8.1/10"},
		{Source: SourceRottenTomatoes, Value: "95%"},
		{Source: SourceMetacritic, Value: "80/100"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseRatings = %#v, want %#v", got, want)
	}
}

func TestParseRatings_EmptyAndMalformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not ratings",
		"[{'Source': 'Metacritic', 'Value': ",
		"{'Source': 'Metacritic'}",
		"null",
	}
	for _, raw := range cases {
		got := ParseRatings(raw)
		if got == nil || len(got) != 0 {
			t.Fatalf("ParseRatings(%q) = %#v, want empty non-nil slice", raw, got)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		source, value string
		want          Grade
	}{
		{SourceRottenTomatoes, "95%", GradeExcellent},
		{SourceRottenTomatoes, "90%", GradeExcellent},
		{SourceRottenTomatoes, "75%", GradeGood},
		{SourceRottenTomatoes, "65%", GradeMedium},
		{SourceRottenTomatoes, "40%", GradePoor},
		{SourceRottenTomatoes, "N/A", GradePoor},
		{SourceIMDb, "8.1/10", GradeGood},
		{SourceIMDb, "7.5/10", GradeGood},
		{SourceIMDb, "6.5/10", GradeMedium},
		{SourceIMDb, "4.0/10", GradePoor},
		{SourceMetacritic, "80/100", GradeGood},
		{SourceMetacritic, "65/100", GradeMedium},
		{SourceMetacritic, "30/100", GradePoor},
		{"Foo", "100/100", GradeNeutral},
		{"Foo", "", GradeNeutral},
	}
	for _, tc := range cases {
		if got := Classify(tc.source, tc.value); got != tc.want {
			t.Fatalf("Classify(%q, %q) = %v, want %v", tc.source, tc.value, got, tc.want)
		}
	}
}

func TestGrade_IsGood(t *testing.T) {
	if !Classify(SourceRottenTomatoes, "95%").IsGood() {
		t.Fatalf("95%% should count as good")
	}
	if Classify(SourceIMDb, "6.5/10").IsGood() {
		t.Fatalf("6.5/10 should not count as good")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("Drama, Crime, ")
	want := []string{"Drama", "Crime"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %#v, want %#v", got, want)
	}
	if SplitList("  ") != nil {
		t.Fatalf("blank field should split to nil")
	}
}

func TestIMDbURL(t *testing.T) {
	m := Movie{IMDbID: "tt0111161"}
	if got := m.IMDbURL(); got != "https://www.imdb.com/title/tt0111161" {
		t.Fatalf("IMDbURL = %q", got)
	}
	if (Movie{}).IMDbURL() != "" {
		t.Fatalf("empty id should have no url")
	}
}
