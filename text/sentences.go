// Package text has language dependent text helpers.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Splitter breaks paragraphs into sentences. Nil splitter treats every
// paragraph as a single sentence.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter returns splitter trained for the language or nil when there is
// no training data for it.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	base, confidence := lang.Base()
	name := strings.ToLower(display.English.Languages().Name(base))
	if confidence == language.No || name != "english" {
		log.Debug("No sentence tokenizer for language, sentences are paragraphs", zap.Stringer("language", lang), zap.String("name", name))
		return nil
	}
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data", zap.Stringer("language", lang), zap.Error(err))
		return nil
	}
	return &Splitter{tok}
}

// Split returns sentences of the paragraph. Whitespace between sentences
// stays with the preceding sentence so that joining result restores input.
func (s *Splitter) Split(in string) []string {
	if s == nil {
		return []string{in}
	}

	var out []string
	for _, sentence := range s.Tokenize(in) {
		out = append(out, sentence.Text)
	}
	// tokenizer attaches inter sentence spaces to the next sentence
	for i := range len(out) - 1 {
		next := out[i+1]
		trimmed := strings.TrimLeftFunc(next, unicode.IsSpace)
		out[i] += next[:len(next)-len(trimmed)]
		out[i+1] = trimmed
	}
	return out
}

// Sentences returns character ranges of the paragraph sentences.
func (s *Splitter) Sentences(in string) [][2]int {
	if in == "" {
		return nil
	}
	var (
		out   [][2]int
		start int
	)
	for _, sentence := range s.Split(in) {
		n := utf8.RuneCountInString(sentence)
		if n == 0 {
			continue
		}
		out = append(out, [2]int{start, start + n})
		start += n
	}
	return out
}
