package markers

import (
	"strconv"
	"strings"
)

// Canonical command vocabulary. Whisper frequently mis-hears the in-band
// cue words, so each canonical token carries a table of phonetic and
// phrasal variants observed in real transcripts.
var variantTable = map[string][]string{
	"slate":      {"slate", "state", "slait", "slayt", "sleight"},
	"done":       {"done", "don", "dun", "dunn", "doan"},
	"broll":      {"broll", "b roll", "b-roll", "b_roll", "be roll"},
	"cta":        {"cta", "c t a", "see t a", "see tea"},
	"apply":      {"apply", "applies", "applied"},
	"mark":       {"mark", "marked", "marc"},
	"scene":      {"scene", "seen", "seene"},
	"take":       {"take", "takes"},
	"title":      {"title", "titel", "tittle"},
	"transition": {"transition", "transitions", "transistion"},
	"dissolve":   {"dissolve", "disolve", "dissolved"},
	"crossfade":  {"crossfade", "cross fade", "cross-fade"},
	"hook":       {"hook", "hooks"},
	"question":   {"question", "questions"},
	"story":      {"story", "storey"},
	"statistic":  {"statistic", "statistics", "stat"},
	"curiosity":  {"curiosity", "curiousity"},
	"promise":    {"promise", "promis"},
	"backup":     {"backup", "back up", "back-up"},
	"select":     {"select", "selects", "selekt"},
	"ending":     {"ending", "endings"},
}

var canonicalOf = func() map[string]string {
	out := make(map[string]string, len(variantTable)*2)
	for canon, variants := range variantTable {
		for _, v := range variants {
			out[v] = canon
		}
	}
	return out
}()

// Command keywords the parser dispatches on. Tokens outside this set are
// arguments or noise.
var keywordSet = map[string]struct{}{
	"apply": {}, "ending": {}, "emotion": {}, "energy": {}, "naming": {},
	"mark": {}, "scene": {}, "take": {}, "order": {}, "step": {},
	"type": {}, "best": {}, "select": {}, "backup": {}, "hook": {},
	"title": {}, "effect": {}, "transition": {}, "screen": {}, "cta": {},
	"broll": {}, "chapter": {},
}

const trailingPunctuation = ".,!?;:"

// Normalize maps a raw word token to its canonical lowercase form: trims
// whitespace, strips trailing punctuation, folds case, and resolves the
// variant table.
func Normalize(token string) string {
	cleaned := strings.TrimSpace(token)
	cleaned = strings.TrimRight(cleaned, trailingPunctuation)
	cleaned = strings.ToLower(cleaned)
	if canon, ok := canonicalOf[cleaned]; ok {
		return canon
	}
	return cleaned
}

// IsKeyword reports whether a canonical token is a recognized command word.
func IsKeyword(canon string) bool {
	_, ok := keywordSet[canon]
	return ok
}

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20,
}

// NumberValue resolves a token to a number: word form zero..twenty or a
// decimal digit string of any magnitude.
func NumberValue(token string) (float64, bool) {
	canon := strings.ToLower(strings.TrimSpace(strings.TrimRight(token, trailingPunctuation)))
	if n, ok := numberWords[canon]; ok {
		return float64(n), true
	}
	if n, err := strconv.ParseUint(canon, 10, 63); err == nil {
		return float64(n), true
	}
	return 0, false
}

func isSingleDigit(token string) (int, bool) {
	canon := strings.ToLower(strings.TrimSpace(strings.TrimRight(token, trailingPunctuation)))
	if n, ok := numberWords[canon]; ok && n <= 9 {
		return n, true
	}
	if len(canon) == 1 && canon[0] >= '0' && canon[0] <= '9' {
		return int(canon[0] - '0'), true
	}
	return 0, false
}

// ParseDecimal resolves a spoken decimal number starting at tokens[i]:
// the sequence <integer> point <digit> [<digit> [<digit>]] yields a float
// with up to three decimal places. Parsing stops at the first non-digit or
// multi-digit token after "point". Returns the value and how many tokens
// were consumed; ok is false when tokens[i] is not a number at all.
func ParseDecimal(tokens []string, i int) (value float64, consumed int, ok bool) {
	if i >= len(tokens) {
		return 0, 0, false
	}
	whole, ok := NumberValue(tokens[i])
	if !ok {
		return 0, 0, false
	}
	consumed = 1
	if i+1 >= len(tokens) || Normalize(tokens[i+1]) != "point" {
		return whole, consumed, true
	}
	digits := make([]int, 0, 3)
	j := i + 2
	for j < len(tokens) && len(digits) < 3 {
		d, isDigit := isSingleDigit(tokens[j])
		if !isDigit {
			break
		}
		digits = append(digits, d)
		j++
	}
	if len(digits) == 0 {
		// "point" without a digit reads as a stray word, not a decimal.
		return whole, consumed, true
	}
	frac := 0.0
	scale := 0.1
	for _, d := range digits {
		frac += float64(d) * scale
		scale /= 10
	}
	return whole + frac, 2 + len(digits), true
}
