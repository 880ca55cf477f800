// Package contact holds the contact record and the organizer that turns a
// flat contact list into a phone book: a front page plus letter groups.
package contact

// Column names expected in the header row of a contact table.
const (
	ColName      = "name"
	ColPhone     = "phone"
	ColCellular  = "cellular"
	ColSort      = "sort"
	ColFrontPage = "frontpage"
)

// Columns lists every required column in canonical order.
var Columns = []string{ColName, ColPhone, ColCellular, ColSort, ColFrontPage}

// Contact is one row of the contact table. Absent values are empty strings.
type Contact struct {
	Name      string
	Phone     string // landline, free text
	Cellular  string // mobile, free text
	Sort      string // explicit sort key; defaults to Name
	FrontPage string // any non-empty value puts the contact on the front page
}

// SortKey returns the effective sort key.
func (c Contact) SortKey() string {
	if c.Sort == "" {
		return c.Name
	}
	return c.Sort
}

// OnFrontPage reports whether the contact is flagged for the front page.
func (c Contact) OnFrontPage() bool {
	return c.FrontPage != ""
}

// HasNumber reports whether the contact has at least one number to print.
func (c Contact) HasNumber() bool {
	return c.Phone != "" || c.Cellular != ""
}

// Group is a run of contacts sharing the same letter.
type Group struct {
	Letter   string
	Contacts []Contact
}

// Book is the organized form of a contact list, ready for rendering.
type Book struct {
	FrontPage []Contact
	Groups    []Group
}

// Len returns the number of distinct contacts in the book.
func (b Book) Len() int {
	n := 0
	for _, g := range b.Groups {
		n += len(g.Contacts)
	}
	return n
}
