package loader

// Format of the book file.
// ENUM(unknown, text, html, epub, fb2, zip)
type Format int
