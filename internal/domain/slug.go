package domain

import "strings"

// slugStrip drops the punctuation that never makes it into a slug.
var slugStrip = strings.NewReplacer(
	"*", "", "+", "", "~", "", ".", "", "(", "", ")", "",
	"'", "", `"`, "", "!", "", ":", "", "@", "",
)

// Slugify derives the URL slug from a title: surrounding whitespace is
// dropped, runs of inner whitespace collapse to single hyphens and case is
// preserved. "New Hotel" -> "New-Hotel". The slug is computed once at create
// time and never recomputed on update.
func Slugify(title string) string {
	return strings.Join(strings.Fields(slugStrip.Replace(title)), "-")
}
