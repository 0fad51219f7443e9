package reader

import (
	"context"

	"go.uber.org/zap"

	"ebr/book"
)

// Hit is a single match found by ScanBook.
type Hit struct {
	book.Position
	Chapter int
	End     int
	Context string
}

// contextWidth is how many characters around the match are kept for display.
const contextWidth = 30

// ScanBook searches all chapters of the book on a separate goroutine. Hits
// are delivered in book order through returned channel which is closed when
// scan completes or context is canceled. Chapters must be safe to load
// concurrently with the controller.
func ScanBook(ctx context.Context, chapters Chapters, pattern *book.Pattern, log *zap.Logger) <-chan Hit {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scan")

	out := make(chan Hit)
	go func() {
		defer close(out)
		for ch := range chapters.Len() {
			doc, err := chapters.Load(ch)
			if err != nil {
				log.Warn("Unable to load chapter, skipping", zap.Int("chapter", ch), zap.Error(err))
				continue
			}
			for line := range doc.Len() {
				l := doc.Line(line)
				for start := 0; start < l.Len(); {
					s, e, ok := l.Search(pattern, start, l.Len(), false)
					if !ok {
						break
					}
					hit := Hit{Chapter: ch, Position: book.Position{Line: line, Offset: s}, End: e, Context: excerpt(l.Runes(), s, e)}
					select {
					case out <- hit:
					case <-ctx.Done():
						log.Debug("Scan canceled", zap.Error(ctx.Err()))
						return
					}
					start = e
				}
			}
		}
	}()
	return out
}

func excerpt(rs []rune, s, e int) string {
	from := max(0, s-contextWidth)
	to := min(len(rs), e+contextWidth)
	return string(rs[from:to])
}
