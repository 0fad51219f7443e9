package reader

import (
	"cmp"
	"fmt"

	"ebr/book"
)

// Location is the complete reading position inside of the container. It is
// plain data so that history can persist it.
type Location struct {
	Inner   int `json:"inner"`
	Chapter int `json:"chapter"`
	book.Position
}

func (l Location) String() string {
	return fmt.Sprintf("%d/%d/%s", l.Inner, l.Chapter, l.Position)
}

// Compare orders locations by inner book, chapter and position.
func (l Location) Compare(o Location) int {
	return cmp.Or(
		cmp.Compare(l.Inner, o.Inner),
		cmp.Compare(l.Chapter, o.Chapter),
		l.Position.Compare(o.Position),
	)
}
