package content

import (
	"fmt"
	"math"
	"unicode"
)

const wordsPerMinute = 200

// ReadingTime is an estimate of how long a post takes to read.
type ReadingTime struct {
	Words   int
	Minutes int
	Text    string // e.g. "3 min read"
}

// EstimateReadingTime counts the words in text and converts them to whole
// minutes at 200 words per minute, rounding up.
func EstimateReadingTime(text string) ReadingTime {
	words := countWords(text)
	exact := float64(words) / wordsPerMinute
	minutes := int(math.Ceil(math.Round(exact*100) / 100))
	return ReadingTime{
		Words:   words,
		Minutes: minutes,
		Text:    readingTimeText(minutes),
	}
}

func readingTimeText(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}

// countWords splits on whitespace; each CJK character counts as its own word.
func countWords(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			n++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
