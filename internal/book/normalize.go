package book

import "strconv"

// Listing is a book ready for display: optional columns the store holds as
// null are empty strings.
type Listing struct {
	ID            int64
	Title         string
	Author        string
	NumberOfPages int
	Publisher     string
	YearPublished string
	Description   string
	Read          bool
}

// Normalize converts fetched books into listings. The input is not modified,
// so normalizing the same set again yields the same result.
func Normalize(books []Book) []Listing {
	out := make([]Listing, 0, len(books))
	for _, b := range books {
		out = append(out, NormalizeOne(b))
	}
	return out
}

func NormalizeOne(b Book) Listing {
	l := Listing{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		NumberOfPages: b.NumberOfPages,
		Read:          b.Read,
	}
	if b.Publisher != nil {
		l.Publisher = *b.Publisher
	}
	if b.YearPublished != nil {
		l.YearPublished = strconv.Itoa(*b.YearPublished)
	}
	if b.Description != nil {
		l.Description = *b.Description
	}
	return l
}
