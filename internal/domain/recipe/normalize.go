package recipe

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// NormalizeIngredientName folds an ingredient name into its matching key: lower case, no
// parenthetical notes, no ", diced"-style preparation suffix, single spaces
// and a singular last word.
func NormalizeIngredientName(name string) string {
	s := strings.ToLower(name)
	s = parenthetical.ReplaceAllString(s, " ")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	words[len(words)-1] = singular(words[len(words)-1])
	return strings.Join(words, " ")
}

func singular(w string) string {
	switch {
	case len(w) <= 3:
		return w
	case strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}
