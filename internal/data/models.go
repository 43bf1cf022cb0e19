package data

import (
	"github.com/jmoiron/sqlx"
)

type Models struct {
	Users interface {
		Insert(user *User) error
		GetByUsername(username string) (*User, error)
		Get(id int64) (*User, error)
	}

	Books interface {
		Insert(book *Book) error
		Get(id int64) (*Book, error)
		GetAll() ([]*Book, error)
		Available() ([]*Book, error)
		Update(book *Book) error
		Delete(id int64) error
		Count() (int, error)
		MergeDuplicates() (int, error)
		ImportClassics() (int, error)
	}

	Members interface {
		Insert(member *Member) error
		Get(id int64) (*Member, error)
		GetAll() ([]*Member, error)
		Update(member *Member) error
		Delete(id int64) error
		Count() (int, error)
		MergeDuplicates() (int, error)
	}

	Loans interface {
		Create(bookID, memberID int64, loanDate, dueDate string) (int64, error)
		Return(id int64) error
		Get(id int64) (*Loan, error)
		Active() ([]*LoanDetail, error)
		Count() (int, error)
		CountActive() (int, error)
		CountOverdue() (int, error)
	}
}

func NewModels(db *sqlx.DB) Models {
	return Models{
		Users:   UserModel{DB: db},
		Books:   BookModel{DB: db},
		Members: MemberModel{DB: db},
		Loans:   LoanModel{DB: db},
	}
}
