package tokenizer

import "strings"

// stopwords are frequent English function words skipped when Config.Stopwords is set.
// Entries are stored without apostrophes since punctuation is stripped first.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "also": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {},
	"arent": {}, "as": {}, "at": {},

	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {},

	"can": {}, "cannot": {}, "cant": {}, "could": {}, "couldnt": {},

	"did": {}, "didnt": {}, "do": {}, "does": {}, "doesnt": {}, "doing": {},
	"dont": {}, "down": {}, "during": {},

	"each": {}, "either": {}, "else": {}, "even": {}, "ever": {}, "every": {},

	"few": {}, "for": {}, "from": {}, "further": {},

	"had": {}, "hadnt": {}, "has": {}, "hasnt": {}, "have": {}, "havent": {},
	"having": {}, "he": {}, "hed": {}, "hell": {}, "her": {}, "here": {},
	"heres": {}, "hers": {}, "herself": {}, "hes": {}, "him": {}, "himself": {},
	"his": {}, "how": {}, "however": {},

	"i": {}, "id": {}, "if": {}, "ill": {}, "im": {}, "in": {}, "into": {},
	"is": {}, "isnt": {}, "it": {}, "its": {}, "itself": {}, "ive": {},

	"just": {},

	"let": {}, "lets": {},

	"me": {}, "more": {}, "most": {}, "much": {}, "must": {}, "mustnt": {},
	"my": {}, "myself": {},

	"no": {}, "nor": {}, "not": {}, "now": {},

	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "ours": {}, "ourselves": {}, "out": {}, "over": {}, "own": {},

	"same": {}, "she": {}, "shed": {}, "shes": {}, "should": {}, "shouldnt": {},
	"so": {}, "some": {}, "such": {},

	"than": {}, "that": {}, "thats": {}, "the": {}, "their": {}, "theirs": {},
	"them": {}, "themselves": {}, "then": {}, "there": {}, "theres": {},
	"these": {}, "they": {}, "theyd": {}, "theyll": {}, "theyre": {},
	"theyve": {}, "this": {}, "those": {}, "through": {}, "to": {}, "too": {},

	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {},

	"very": {},

	"was": {}, "wasnt": {}, "we": {}, "wed": {}, "were": {}, "werent": {},
	"weve": {}, "what": {}, "whats": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "whos": {}, "why": {}, "will": {},
	"with": {}, "without": {}, "wont": {}, "would": {}, "wouldnt": {},

	"yet": {}, "you": {}, "youd": {}, "youll": {}, "your": {}, "youre": {},
	"yours": {}, "yourself": {}, "yourselves": {}, "youve": {},
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}
