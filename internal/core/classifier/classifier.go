// Package classifier scores reply text against a fixed table of spam heuristics
package classifier

import (
	"slices"
	"strings"

	"replyguard/internal/core/normalize"
)

// Reason tags, in rule evaluation order
const (
	ReasonShort         = "short"
	ReasonHashtagSpam   = "hashtag-spam"
	ReasonNoPronouns    = "no-pronouns"
	ReasonGenericPraise = "generic-praise"
	ReasonEmojiSpam     = "emoji-spam"
	ReasonShortPraise   = "short-praise"
)

// Thresholds used by the rule table
const (
	ShortWordLimit      = 15  // wordCount < 15
	HashtagRatioLimit   = 0.2 // hashtags/wordCount > 0.2
	PraiseEmojiMin      = 3
	EmojiSpamMin        = 5
	ShortPraiseWordsMax = 5
)

// DefaultPronouns is the personal pronoun list; any exact token match disarms no-pronouns
var DefaultPronouns = []string{"i", "you", "your", "my", "we", "me", "our", "us", "myself", "yourself"}

// DefaultPraise is the generic praise list, matched as lowercase substrings of the whole text
var DefaultPraise = []string{
	"great", "amazing", "love", "brilliant", "incredible",
	"awesome", "fantastic", "wonderful", "perfect", "excellent",
}

// Result is the immutable outcome of one classification
type Result struct {
	Total   float64  `json:"total"`
	Reasons []string `json:"reasons"`
}

// Has reports whether reason fired
func (r Result) Has(reason string) bool { return slices.Contains(r.Reasons, reason) }

// Features are the derived signals the rules read, returned for diagnostics
type Features struct {
	Words      int  `json:"words"`
	Hashtags   int  `json:"hashtags"`
	Emoji      int  `json:"emoji"`
	HasPronoun bool `json:"has_pronoun"`
	HasPraise  bool `json:"has_praise"`
}

// rule is one row of the table: a weight, a tag, and a predicate over features
type rule struct {
	tag    string
	weight float64
	fires  func(f Features) bool
}

// Weight is a rule tag with the score it adds when it fires
type Weight struct {
	Tag    string  `json:"tag"`
	Weight float64 `json:"weight"`
}

// Weights lists the rule table in evaluation order
func Weights() []Weight {
	out := make([]Weight, len(rules))
	for i, r := range rules {
		out[i] = Weight{Tag: r.tag, Weight: r.weight}
	}
	return out
}

// rules is evaluated top to bottom; order defines Result.Reasons order
var rules = []rule{
	{ReasonShort, 1.0, func(f Features) bool { return f.Words < ShortWordLimit }},
	{ReasonHashtagSpam, 1.0, func(f Features) bool {
		return f.Words > 0 && float64(f.Hashtags)/float64(f.Words) > HashtagRatioLimit
	}},
	{ReasonNoPronouns, 1.0, func(f Features) bool { return !f.HasPronoun }},
	{ReasonGenericPraise, 1.0, func(f Features) bool { return f.HasPraise && f.Emoji >= PraiseEmojiMin }},
	{ReasonEmojiSpam, 0.5, func(f Features) bool { return f.Emoji >= EmojiSpamMin }},
	{ReasonShortPraise, 0.5, func(f Features) bool { return f.Words <= ShortPraiseWordsMax && f.HasPraise }},
}

// Options overrides the word lists; zero value uses the defaults
type Options struct {
	Pronouns []string
	Praise   []string
}

// Classifier is stateless after construction and safe for concurrent use
type Classifier struct {
	pronouns map[string]struct{}
	praise   []string
}

// New creates a Classifier with the default word lists
func New() *Classifier { return NewWithOptions(Options{}) }

// NewWithOptions creates a Classifier with custom word lists
func NewWithOptions(opts Options) *Classifier {
	pr := opts.Pronouns
	if len(pr) == 0 {
		pr = DefaultPronouns
	}
	pw := opts.Praise
	if len(pw) == 0 {
		pw = DefaultPraise
	}

	c := &Classifier{pronouns: make(map[string]struct{}, len(pr))}
	for _, p := range pr {
		c.pronouns[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, w := range pw {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			c.praise = append(c.praise, w)
		}
	}
	return c
}

// Classify scores text. Pure: no I/O, no shared state, same input same output
func (c *Classifier) Classify(text string) Result {
	res, _ := c.Explain(text)
	return res
}

// Explain scores text and also returns the features the rules saw
func (c *Classifier) Explain(text string) (Result, Features) {
	f := c.features(normalize.Measure(text))

	res := Result{Reasons: make([]string, 0, len(rules))}
	for _, r := range rules {
		if r.fires(f) {
			res.Total += r.weight
			res.Reasons = append(res.Reasons, r.tag)
		}
	}
	return res, f
}

func (c *Classifier) features(m normalize.Metrics) Features {
	f := Features{Words: m.Words, Hashtags: m.Hashtags, Emoji: m.Emoji}
	for _, l := range m.Letters {
		if _, ok := c.pronouns[l]; ok {
			f.HasPronoun = true
			break
		}
	}
	for _, w := range c.praise {
		if strings.Contains(m.Lower, w) {
			f.HasPraise = true
			break
		}
	}
	return f
}

// fallback is shared by the package-level helper
var fallback = New()

// Classify scores text with the default word lists
func Classify(text string) Result { return fallback.Classify(text) }
