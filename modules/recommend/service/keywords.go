package service

import (
	"sort"
	"strings"

	tendermodel "github.com/teddycheru/tenderlens/modules/tenders/model"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "for": true, "and": true,
	"to": true, "in": true, "on": true, "with": true, "by": true, "at": true,
	"from": true, "is": true, "are": true, "or": true,
}

// tokenize lowercases, splits on non-letter/digit boundaries, and drops
// stop words and tokens shorter than 3 characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

func tenderKeywordTokens(t *tendermodel.Tender) map[string]bool {
	text := t.Title + " " + strings.Join(t.Highlights, " ")
	set := map[string]bool{}
	for _, tok := range tokenize(text) {
		set[tok] = true
	}
	return set
}

// commonKeywords returns the intersection of ref's and candidate's
// title+highlights tokens, capped at 10.
func commonKeywords(ref, candidate *tendermodel.Tender) []string {
	refTokens := tenderKeywordTokens(ref)
	candTokens := tenderKeywordTokens(candidate)

	var common []string
	for tok := range refTokens {
		if candTokens[tok] {
			common = append(common, tok)
		}
	}
	sort.Strings(common)
	if len(common) > 10 {
		common = common[:10]
	}
	return common
}
