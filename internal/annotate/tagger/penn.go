package tagger

import "strings"

// auxiliaries are the be/have/do forms that the Penn tag set labels as
// ordinary verbs.
var auxiliaries = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "'m": true, "'re": true, "'s": true,
	"have": true, "has": true, "had": true, "having": true, "'ve": true, "'d": true,
	"do": true, "does": true, "did": true,
}

// TagsForPenn maps a Penn Treebank tag and its word to a tag set.
func TagsForPenn(pennTag, word string) TagSet {
	switch pennTag {
	case "NN", "NNS", "NNP", "NNPS":
		return TagNoun
	case "PRP", "PRP$", "WP", "WP$":
		return TagNoun | TagPronoun
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		if auxiliaries[strings.ToLower(word)] {
			return TagVerb | TagAuxiliary
		}
		return TagVerb
	case "MD":
		return TagVerb | TagModal
	case "JJ", "JJR", "JJS":
		return TagAdjective
	case "RB", "RBR", "RBS", "WRB":
		return TagAdverb
	case "CC":
		return TagConjunction
	default:
		return 0
	}
}
