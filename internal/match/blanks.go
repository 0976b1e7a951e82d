package match

import "strings"

// placeholder marks a missing letter inside a template group.
const placeholder = ".."

// BlankSpot is one resolved blank position within a fill-blank exercise.
type BlankSpot struct {
	Group  int    // index of the template group
	Offset int    // rune offset of the blank within the correct word
	Before string // literal text preceding the blank
	After  string // literal text following the blank
	Want   string // the expected letter, derived from the correct word
}

// ParseBlanks resolves the blank positions of a fill-blank exercise from
// its template groups and the list of full correct words. A blank's
// expected letter is the correct word's rune at the blank's offset; the
// offset accounts for preceding literals and earlier blanks in the same
// group. Groups without a placeholder contribute nothing; missing or short
// correct words yield blanks with an empty expectation rather than an
// error, so malformed content degrades to a zero-score exercise.
func ParseBlanks(groups, words []string) []BlankSpot {
	var spots []BlankSpot
	for gi, group := range groups {
		parts := strings.Split(strings.TrimSpace(group), placeholder)
		if len(parts) == 1 {
			continue
		}
		var word []rune
		if gi < len(words) {
			word = []rune(words[gi])
		}
		offset := 0
		for i := 0; i < len(parts)-1; i++ {
			offset += len([]rune(parts[i]))
			want := ""
			if offset < len(word) {
				want = string(word[offset])
			}
			spots = append(spots, BlankSpot{
				Group:  gi,
				Offset: offset,
				Before: parts[i],
				After:  parts[i+1],
				Want:   want,
			})
			offset++
		}
	}
	return spots
}
