package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// DateLayout is the calendar date format used for loan and due dates.
const DateLayout = "2006-01-02"

type Loan struct {
	ID         int64
	BookID     int64
	MemberID   int64
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// LoanDetail is a loan joined with the book and member fields the loan pages
// display.
type LoanDetail struct {
	ID          int64
	BookID      int64
	MemberID    int64
	LoanDate    time.Time
	DueDate     time.Time
	BookTitle   string
	BookAuthor  string
	MemberName  string
	MemberEmail *string
}

type LoanModel struct {
	DB *sqlx.DB
}

// Create lends a book to a member. Validation order: both ids must reference
// existing rows, both dates must parse as calendar dates, the loan date must
// not be after the due date, and the book must have no active loan. The
// availability check and the insert share one transaction, and the partial
// unique index on open loans turns a concurrent double-lend into
// ErrBookUnavailable rather than a silent double booking.
func (m LoanModel) Create(bookID, memberID int64, loanDate, dueDate string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	query := tx.Rebind(`SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)`)
	if err := tx.QueryRowContext(ctx, query, bookID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrRecordNotFound
	}

	query = tx.Rebind(`SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)`)
	if err := tx.QueryRowContext(ctx, query, memberID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrRecordNotFound
	}

	from, err := time.Parse(DateLayout, loanDate)
	if err != nil {
		return 0, ErrInvalidDate
	}
	until, err := time.Parse(DateLayout, dueDate)
	if err != nil {
		return 0, ErrInvalidDate
	}
	if from.After(until) {
		return 0, ErrInvalidDateRange
	}

	var active int
	query = tx.Rebind(`SELECT COUNT(1) FROM loans WHERE book_id = ? AND return_date IS NULL`)
	if err := tx.QueryRowContext(ctx, query, bookID).Scan(&active); err != nil {
		return 0, err
	}
	if active > 0 {
		return 0, ErrBookUnavailable
	}

	query = tx.Rebind(`
		INSERT INTO loans (book_id, member_id, loan_date, due_date)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err = tx.QueryRowContext(ctx, query, bookID, memberID, loanDate, dueDate).Scan(&id)
	if err != nil {
		switch {
		case isUniqueViolation(err, "loans"):
			return 0, ErrBookUnavailable
		default:
			return 0, err
		}
	}

	return id, tx.Commit()
}

// Return closes a loan by stamping today's date on it. Returning an
// already-closed loan is an idempotent success: the original return date is
// kept and no error is reported.
func (m LoanModel) Return(id int64) error {
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

	var returned sql.NullTime
	query := tx.Rebind(`SELECT return_date FROM loans WHERE id = ?`)
	err = tx.QueryRowContext(ctx, query, id).Scan(&returned)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	if returned.Valid {
		return tx.Commit()
	}

	query = tx.Rebind(`UPDATE loans SET return_date = ? WHERE id = ?`)
	today := time.Now().Format(DateLayout)
	if _, err := tx.ExecContext(ctx, query, today, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (m LoanModel) Get(id int64) (*Loan, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := m.DB.Rebind(`
		SELECT id, book_id, member_id, loan_date, due_date, return_date
		FROM loans
		WHERE id = ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var loan Loan
	var returned sql.NullTime
	err := m.DB.QueryRowContext(ctx, query, id).
		Scan(&loan.ID, &loan.BookID, &loan.MemberID, &loan.LoanDate, &loan.DueDate, &returned)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if returned.Valid {
		loan.ReturnDate = &returned.Time
	}
	return &loan, nil
}

// Active returns the open loans joined with book and member details, newest
// first.
func (m LoanModel) Active() ([]*LoanDetail, error) {
	query := `
		SELECT lo.id, lo.book_id, lo.member_id, lo.loan_date, lo.due_date,
			b.title, b.author, m.name, m.email
		FROM loans lo
		JOIN books b ON b.id = lo.book_id
		JOIN members m ON m.id = lo.member_id
		WHERE lo.return_date IS NULL
		ORDER BY lo.id DESC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*LoanDetail
	for rows.Next() {
		var l LoanDetail
		err := rows.Scan(
			&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.DueDate,
			&l.BookTitle, &l.BookAuthor, &l.MemberName, &l.MemberEmail,
		)
		if err != nil {
			return nil, err
		}
		loans = append(loans, &l)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return loans, nil
}

func (m LoanModel) Count() (int, error) {
	return m.count(`SELECT COUNT(*) FROM loans`)
}

func (m LoanModel) CountActive() (int, error) {
	return m.count(`SELECT COUNT(*) FROM loans WHERE return_date IS NULL`)
}

func (m LoanModel) CountOverdue() (int, error) {
	query := m.DB.Rebind(`SELECT COUNT(*) FROM loans WHERE return_date IS NULL AND due_date < ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int
	today := time.Now().Format(DateLayout)
	if err := m.DB.QueryRowContext(ctx, query, today).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m LoanModel) count(query string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int
	if err := m.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
