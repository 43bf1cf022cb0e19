package data

import (
	"context"
	"time"
)

type classic struct {
	title  string
	author string
	isbn   string // empty when unknown
	year   int
}

var classicCatalogue = []classic{
	{"Don Quixote", "Miguel de Cervantes", "9780060934347", 1605},
	{"War and Peace", "Leo Tolstoy", "9780199232765", 1869},
	{"Anna Karenina", "Leo Tolstoy", "9780143035008", 1877},
	{"Crime and Punishment", "Fyodor Dostoevsky", "9780140449136", 1866},
	{"The Brothers Karamazov", "Fyodor Dostoevsky", "9780374528379", 1880},
	{"The Idiot", "Fyodor Dostoevsky", "9780140447927", 1869},
	{"Les Miserables", "Victor Hugo", "9780451419439", 1862},
	{"The Count of Monte Cristo", "Alexandre Dumas", "9780140449266", 1844},
	{"The Three Musketeers", "Alexandre Dumas", "9780140437263", 1844},
	{"Moby Dick", "Herman Melville", "9780142437247", 1851},
	{"The Great Gatsby", "F. Scott Fitzgerald", "9780743273565", 1925},
	{"Pride and Prejudice", "Jane Austen", "9780141439518", 1813},
	{"Jane Eyre", "Charlotte Bronte", "9780141441146", 1847},
	{"Wuthering Heights", "Emily Bronte", "9780141439556", 1847},
	{"The Odyssey", "Homer", "", -700},
	{"The Iliad", "Homer", "", -750},
	{"The Divine Comedy", "Dante Alighieri", "9780142437223", 1320},
	{"The Picture of Dorian Gray", "Oscar Wilde", "9780141439570", 1890},
	{"Heart of Darkness", "Joseph Conrad", "9780141441672", 1899},
	{"Hamlet", "William Shakespeare", "", 1603},
	{"1984", "George Orwell", "9780451524935", 1949},
	{"Brave New World", "Aldous Huxley", "9780060850524", 1932},
	{"Ulysses", "James Joyce", "9780199535675", 1922},
	{"Madame Bovary", "Gustave Flaubert", "9780140449129", 1856},
	{"The Stranger", "Albert Camus", "9780679720201", 1942},
}

// ImportClassics bulk-inserts the classic catalogue, skipping any book
// already present by ISBN or, for books without one, by case-insensitive
// title and author. Returns the number of books inserted. Running it again
// inserts nothing.
func (m BookModel) ImportClassics() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, c := range classicCatalogue {
		var exists bool
		if c.isbn != "" {
			query := tx.Rebind(`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)`)
			err = tx.QueryRowContext(ctx, query, c.isbn).Scan(&exists)
		} else {
			query := tx.Rebind(`
				SELECT EXISTS(
					SELECT 1 FROM books
					WHERE LOWER(title) = LOWER(?) AND LOWER(author) = LOWER(?)
				)`)
			err = tx.QueryRowContext(ctx, query, c.title, c.author).Scan(&exists)
		}
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		var isbn *string
		if c.isbn != "" {
			isbn = &c.isbn
		}

		query := tx.Rebind(`INSERT INTO books (title, author, isbn, year) VALUES (?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, c.title, c.author, isbn, c.year); err != nil {
			return 0, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}
