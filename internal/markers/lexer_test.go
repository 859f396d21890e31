package markers

import "testing"

func TestNormalizeVariants(t *testing.T) {
	cases := map[string]string{
		"slate":   "slate",
		"Slate.":  "slate",
		"SLAIT":   "slate",
		"state":   "slate",
		"sleight": "slate",
		"dun":     "done",
		"doan":    "done",
		"Done!":   "done",
		"b-roll":  "broll",
		"b_roll":  "broll",
		"see tea": "cta",
		"marc":    "mark",
		"seen":    "scene",
		"random":  "random",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeStripsTrailingPunctuation(t *testing.T) {
	for _, input := range []string{"slate.", "slate,", "slate!", "slate?", "slate;", "slate:"} {
		if got := Normalize(input); got != "slate" {
			t.Errorf("Normalize(%q) = %q", input, got)
		}
	}
}

func TestNumberValue(t *testing.T) {
	cases := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"zero", 0, true},
		{"Five", 5, true},
		{"twenty", 20, true},
		{"5", 5, true},
		{"42", 42, true},
		{"1000000", 1000000, true},
		{"twentyone", 0, false},
		{"-3", 0, false},
		{"fish", 0, false},
	}
	for _, tc := range cases {
		got, ok := NumberValue(tc.token)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NumberValue(%q) = %f,%v want %f,%v", tc.token, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name     string
		tokens   []string
		want     float64
		consumed int
		ok       bool
	}{
		{"plain integer", []string{"five"}, 5, 1, true},
		{"one point five", []string{"one", "point", "five"}, 1.5, 3, true},
		{"three digits", []string{"two", "point", "one", "two", "five"}, 2.125, 5, true},
		{"stops at multi-digit", []string{"one", "point", "five", "42"}, 1.5, 3, true},
		{"stops at word", []string{"one", "point", "five", "intro"}, 1.5, 3, true},
		{"digit cap", []string{"one", "point", "1", "2", "3", "4"}, 1.123, 5, true},
		{"point without digit", []string{"one", "point", "intro"}, 1, 1, true},
		{"not a number", []string{"intro"}, 0, 0, false},
	}
	for _, tc := range cases {
		value, consumed, ok := ParseDecimal(tc.tokens, 0)
		if ok != tc.ok || consumed != tc.consumed || value != tc.want {
			t.Errorf("%s: ParseDecimal = %f,%d,%v want %f,%d,%v",
				tc.name, value, consumed, ok, tc.want, tc.consumed, tc.ok)
		}
	}
}

func TestScoreLevelTable(t *testing.T) {
	expected := map[string]int{"skip": 0, "fair": 1, "good": 2, "best": 3}
	for word, level := range expected {
		got, ok := ScoreLevel(word)
		if !ok || got != level {
			t.Errorf("ScoreLevel(%q) = %d,%v want %d", word, got, ok, level)
		}
	}
	if _, ok := ScoreLevel("great"); ok {
		t.Error("unexpected score word accepted")
	}
}
