package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ybulut/liblend/internal/validator"
)

type Member struct {
	ID    int64
	Name  string
	Email *string
	Phone *string
}

type MemberModel struct {
	DB *sqlx.DB
}

func (m MemberModel) Insert(member *Member) error {
	query := m.DB.Rebind(`
		INSERT INTO members (name, email, phone)
		VALUES (?, ?, ?)
		RETURNING id`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []any{member.Name, member.Email, member.Phone}
	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&member.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err, "email"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m MemberModel) Get(id int64) (*Member, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := m.DB.Rebind(`
		SELECT id, name, email, phone
		FROM members
		WHERE id = ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var member Member
	err := m.DB.QueryRowContext(ctx, query, id).
		Scan(&member.ID, &member.Name, &member.Email, &member.Phone)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &member, nil
}

func (m MemberModel) GetAll() ([]*Member, error) {
	query := `
		SELECT id, name, email, phone
		FROM members
		ORDER BY id DESC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var mb Member
		if err := rows.Scan(&mb.ID, &mb.Name, &mb.Email, &mb.Phone); err != nil {
			return nil, err
		}
		members = append(members, &mb)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (m MemberModel) Update(member *Member) error {
	query := m.DB.Rebind(`
		UPDATE members
		SET name = ?, email = ?, phone = ?
		WHERE id = ?`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	args := []any{member.Name, member.Email, member.Phone, member.ID}
	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err, "email"):
			return ErrDuplicateEmail
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

// Delete removes a member unless an active loan references them. Closed loan
// history referencing the member is removed by the foreign-key cascade.
func (m MemberModel) Delete(id int64) error {
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
	query := tx.Rebind(`SELECT COUNT(1) FROM loans WHERE member_id = ? AND return_date IS NULL`)
	if err := tx.QueryRowContext(ctx, query, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrActiveLoans
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM members WHERE id = ?`), id)
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

func (m MemberModel) Count() (int, error) {
	query := `SELECT COUNT(*) FROM members`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int
	err := m.DB.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MergeDuplicates collapses members sharing an exact name into the lowest-id
// record, re-pointing their loans first. Returns the number of members
// removed.
func (m MemberModel) MergeDuplicates() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	groups, err := duplicateGroups(ctx, tx, `SELECT id, name FROM members ORDER BY id`)
	if err != nil {
		return 0, err
	}

	removed, err := mergeGroups(ctx, tx, groups, "member_id", "members")
	if err != nil {
		return 0, err
	}

	return removed, tx.Commit()
}

func ValidateMember(v *validator.Validator, member *Member) {
	v.Check(validator.NotBlank(member.Name), "name", "must be provided")
	if member.Email != nil {
		v.Check(validator.Matches(*member.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}
