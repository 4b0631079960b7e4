package book

import (
	"errors"
)

// ErrNotFound is returned when no book matches the requested id.
var ErrNotFound = errors.New("book not found")

// ErrInvalidColumn is returned when a listing is ordered by a column other
// than id, title or author.
var ErrInvalidColumn = errors.New("invalid order column")

// Book is a record of the books table as the store returns it. Optional
// columns are nil when the store holds null.
type Book struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	NumberOfPages int     `json:"number_of_pages"`
	Publisher     *string `json:"publisher"`
	YearPublished *int    `json:"year_published"`
	Description   *string `json:"description"`
	Read          bool    `json:"read"`
}

// Fields holds every writable column. A write replaces all of them.
type Fields struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	NumberOfPages int     `json:"number_of_pages"`
	Publisher     *string `json:"publisher"`
	YearPublished *int    `json:"year_published"`
	Description   *string `json:"description"`
	Read          bool    `json:"read"`
}

// Column is a column a listing can be ordered by.
type Column string

const (
	ColumnID     Column = "id"
	ColumnTitle  Column = "title"
	ColumnAuthor Column = "author"
)

func (c Column) Valid() bool {
	switch c {
	case ColumnID, ColumnTitle, ColumnAuthor:
		return true
	}
	return false
}
