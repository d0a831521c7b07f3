// Package normalize extracts the text metrics the reply classifier scores on
// Pipeline order
// 1 Trim surrounding whitespace
// 2 Split on whitespace runs into tokens (empty tokens dropped)
// 3 Count hashtag-like tokens (# followed by word characters)
// 4 Count emoji code points from a fixed set of blocks
// 5 Lowercase the text via a pooled x/text caser for substring matching
// 6 Fold each token to its a-z letters for pronoun matching
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

// Metrics is the per-text measurement the rules evaluate
type Metrics struct {
	Words    int
	Hashtags int
	Emoji    int

	// Lower is the trimmed text lowercased, used for substring checks
	Lower string
	// Letters holds each token lowercased with every non a-z rune removed
	Letters []string
}

// casers are not safe for concurrent use, so each caller borrows one
var lowerPool = sync.Pool{
	New: func() any {
		return cases.Lower(language.Und)
	},
}

// hashtagRe mirrors the #\w+ shape: ASCII word characters only
var hashtagRe = regexp.MustCompile(`#\w+`)

// emojiTable lists the emoji blocks counted by the classifier
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // misc symbols
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1}, // regional indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // symbols and pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport and map
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols
		{Lo: 0x1FA00, Hi: 0x1FA6F, Stride: 1}, // chess symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // symbols extended-a
	},
}

// Measure computes Metrics for raw display text. It is pure and safe for concurrent use
func Measure(text string) Metrics {
	clean := strings.TrimSpace(text)
	toks := Tokens(clean)

	m := Metrics{
		Words:    len(toks),
		Hashtags: CountHashtags(clean),
		Emoji:    CountEmoji(clean),
		Lower:    Lower(clean),
		Letters:  make([]string, 0, len(toks)),
	}
	for _, t := range toks {
		m.Letters = append(m.Letters, LetterKey(t))
	}
	return m
}

// Tokens splits s on whitespace runs, dropping empty tokens
func Tokens(s string) []string {
	return strings.Fields(s)
}

// CountHashtags returns the number of non-overlapping #word matches in s
func CountHashtags(s string) int {
	if s == "" {
		return 0
	}
	return len(hashtagRe.FindAllStringIndex(s, -1))
}

// CountEmoji returns the number of code points of s inside the emoji table
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if IsEmoji(r) {
			n++
		}
	}
	return n
}

// IsEmoji reports whether r is counted as an emoji
func IsEmoji(r rune) bool { return unicode.Is(emojiTable, r) }

// Lower lowercases s using a pooled language-neutral caser
func Lower(s string) string {
	if s == "" {
		return ""
	}
	c := lowerPool.Get().(cases.Caser)
	out, _, err := transform.String(c, s)
	c.Reset()
	lowerPool.Put(c)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// LetterKey lowercases a token and drops every rune outside a-z
func LetterKey(tok string) string {
	low := Lower(tok)
	var b strings.Builder
	b.Grow(len(low))
	for i := 0; i < len(low); i++ {
		if ch := low[i]; ch >= 'a' && ch <= 'z' {
			b.WriteByte(ch)
		}
	}
	return b.String()
}
