package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Book struct {
	ID     int64
	Title  string
	Author string
	ISBN   *string
	Year   *int
}

type BookModel struct {
	DB *sqlx.DB
}

func (m BookModel) Insert(book *Book) error {
	query := m.DB.Rebind(`
		INSERT INTO books (title, author, isbn, year)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []any{book.Title, book.Author, book.ISBN, book.Year}
	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&book.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err, "isbn"):
			return ErrDuplicateISBN
		default:
			return err
		}
	}
	return nil
}

func (m BookModel) Get(id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := m.DB.Rebind(`
		SELECT id, title, author, isbn, year
		FROM books
		WHERE id = ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var b Book
	err := m.DB.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &b, nil
}

func (m BookModel) GetAll() ([]*Book, error) {
	query := `
		SELECT id, title, author, isbn, year
		FROM books
		ORDER BY id DESC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.collect(ctx, query)
}

// Available returns the books with no active loan, ordered
// case-insensitively by title with id as the tie-breaker.
func (m BookModel) Available() ([]*Book, error) {
	query := `
		SELECT b.id, b.title, b.author, b.isbn, b.year
		FROM books b
		LEFT JOIN (
			SELECT book_id FROM loans WHERE return_date IS NULL
		) l ON b.id = l.book_id
		WHERE l.book_id IS NULL
		ORDER BY LOWER(b.title), b.id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.collect(ctx, query)
}

func (m BookModel) collect(ctx context.Context, query string, args ...any) ([]*Book, error) {
	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

func (m BookModel) Update(book *Book) error {
	query := m.DB.Rebind(`
		UPDATE books
		SET title = ?, author = ?, isbn = ?, year = ?
		WHERE id = ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []any{book.Title, book.Author, book.ISBN, book.Year, book.ID}
	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err, "isbn"):
			return ErrDuplicateISBN
		default:
			return err
		}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes a book unless an active loan references it. Closed loan
// history referencing the book is removed by the foreign-key cascade.
func (m BookModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var active int
	query := tx.Rebind(`SELECT COUNT(1) FROM loans WHERE book_id = ? AND return_date IS NULL`)
	if err := tx.QueryRowContext(ctx, query, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrActiveLoans
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM books WHERE id = ?`), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return tx.Commit()
}

func (m BookModel) Count() (int, error) {
	query := `SELECT COUNT(*) FROM books`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int
	err := m.DB.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MergeDuplicates collapses books sharing an exact title into the lowest-id
// record. Loans referencing a removed duplicate are re-pointed to the
// survivor before the duplicate rows are deleted, all inside one
// transaction. Returns the number of books removed.
func (m BookModel) MergeDuplicates() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	groups, err := duplicateGroups(ctx, tx, `SELECT id, title FROM books ORDER BY id`)
	if err != nil {
		return 0, err
	}

	removed, err := mergeGroups(ctx, tx, groups, "book_id", "books")
	if err != nil {
		return 0, err
	}

	return removed, tx.Commit()
}
