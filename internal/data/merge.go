package data

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// duplicateGroups runs a query returning (id, key) rows ordered by id and
// groups the ids by key. Because the rows arrive in id order, the first id of
// each group is the lowest one.
func duplicateGroups(ctx context.Context, tx *sqlx.Tx, query string) ([][]int64, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byKey := make(map[string][]int64)
	var order []string
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var groups [][]int64
	for _, key := range order {
		if ids := byKey[key]; len(ids) > 1 {
			groups = append(groups, ids)
		}
	}
	return groups, nil
}

// mergeGroups re-points loans from every duplicate id to its group's
// survivor, then deletes the duplicates. The loan update runs before the
// delete within the same transaction, so no loan is ever orphaned.
//
// A group whose records hold more than one active loan between them is left
// untouched: merging it would put two open loans on the survivor at once.
func mergeGroups(ctx context.Context, tx *sqlx.Tx, groups [][]int64, fkColumn, table string) (int, error) {
	removed := 0
	for _, ids := range groups {
		survivor, duplicates := ids[0], ids[1:]

		if table == "books" {
			query, args, err := sqlx.In(
				`SELECT COUNT(1) FROM loans WHERE book_id IN (?) AND return_date IS NULL`, ids,
			)
			if err != nil {
				return 0, err
			}
			var active int
			if err := tx.QueryRowContext(ctx, tx.Rebind(query), args...).Scan(&active); err != nil {
				return 0, err
			}
			if active > 1 {
				continue
			}
		}

		query, args, err := sqlx.In(
			`UPDATE loans SET `+fkColumn+` = ? WHERE `+fkColumn+` IN (?)`,
			survivor, duplicates,
		)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return 0, err
		}

		query, args, err = sqlx.In(`DELETE FROM `+table+` WHERE id IN (?)`, duplicates)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return 0, err
		}

		removed += len(duplicates)
	}
	return removed, nil
}
