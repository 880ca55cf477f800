package contact

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upperTag selects language-neutral case mapping. A cases.Caser is stateful,
// so each caller builds its own.
var upperTag = language.Und

// Organize fills missing sort keys, stable-sorts the contacts by sort key and
// splits them into the front page and letter groups.
//
// Front-page contacts stay in their letter group as well. The input slice is
// not modified.
func Organize(contacts []Contact) Book {
	sorted := make([]Contact, len(contacts))
	for i, c := range contacts {
		c.Sort = c.SortKey()
		sorted[i] = c
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sort < sorted[j].Sort
	})

	book := Book{}
	caser := cases.Upper(upperTag)
	index := make(map[string]int)

	for _, c := range sorted {
		if c.OnFrontPage() {
			book.FrontPage = append(book.FrontPage, c)
		}

		letter := letterOf(caser, c.Sort)
		pos, ok := index[letter]
		if !ok {
			pos = len(book.Groups)
			index[letter] = pos
			book.Groups = append(book.Groups, Group{Letter: letter})
		}
		book.Groups[pos].Contacts = append(book.Groups[pos].Contacts, c)
	}

	// Uppercasing can reorder keys ("Zed" < "adam" but "A" < "Z").
	sort.SliceStable(book.Groups, func(i, j int) bool {
		return book.Groups[i].Letter < book.Groups[j].Letter
	})

	return book
}

// Letter returns the group letter for a sort key: its first character,
// uppercased. An empty key has an empty letter.
func Letter(key string) string {
	return letterOf(cases.Upper(upperTag), key)
}

func letterOf(caser cases.Caser, key string) string {
	if key == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(key)
	return caser.String(key[:size])
}
