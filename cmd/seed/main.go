package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"

	"booklog/internal/book"
	"booklog/internal/config"
	"booklog/internal/store"
)

var (
	authors    = []string{"Le Guin", "Herbert", "Austen", "Lem", "Dick", "Morrison", "Calvino", "Borges", "Atwood", "Tolstoy"}
	publishers = []string{"Penguin", "HarperCollins", "Ace", "Vintage", "Gollancz", "Tor", ""}
	words      = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Peace", "Nature", "History", "Future", "Reality", "Wisdom", "Light",
		"Darkness", "World", "Time", "Space", "Mind", "Soul",
	}
)

func main() {
	count := flag.Int("count", 20, "number of books to insert")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	repo, closeStore := store.MustOpen(ctx, cfg)
	defer closeStore()
	service := book.NewService(repo)

	log.Printf("Inserting %d books...", *count)
	for i := 0; i < *count; i++ {
		form := randomForm(i + 1)
		if err := book.ValidateForm(form); err != nil {
			log.Fatalf("generated book %d is invalid: %v", i+1, err)
		}
		saved, _, err := service.Save(ctx, nil, form.Fields())
		if err != nil {
			log.Fatalf("Failed to insert book %d: %v", i+1, err)
		}
		log.Printf("inserted book: id=%d title=%q", saved.ID, saved.Title)
	}

	books, err := service.List(ctx, book.ColumnID)
	if err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}
	log.Printf("Total books in store: %d", len(books))
}

func randomForm(n int) book.Form {
	form := book.Form{
		Title:         fmt.Sprintf("%s of %s", pick(words), pick(words)),
		Author:        pick(authors),
		NumberOfPages: strconv.Itoa(100 + rand.Intn(800)),
		Publisher:     pick(publishers),
		Read:          n%3 == 0,
	}
	if n%4 != 0 {
		form.YearPublished = strconv.Itoa(1950 + rand.Intn(75))
	}
	if n%2 == 0 {
		form.Description = fmt.Sprintf("A book about %s.", pick(words))
	}
	return form
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}
