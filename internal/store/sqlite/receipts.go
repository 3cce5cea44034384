package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/rmed/receipt-keeper/internal/store"
)

const receiptsTable = "receipts"

var receiptColumns = []string{
	"id",
	"COALESCE(description, '') AS description",
	"shop",
	"amount",
	"currency",
	"payment_type",
	"date_paid",
}

// AddReceipt inserts r and sets its ID.
func (s *SQLiteStore) AddReceipt(ctx context.Context, r *store.Receipt) error {
	if s.db == nil {
		return errNotOpened
	}
	if err := r.Validate(); err != nil {
		return err
	}

	query, args, err := sq.Insert(receiptsTable).
		Columns("description", "shop", "amount", "currency", "payment_type", "date_paid").
		Values(r.Description, r.Shop, r.Amount, r.Currency, r.PaymentType, r.DatePaid).
		ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read receipt id: %w", err)
	}
	r.ID = id
	return nil
}

// GetReceipt returns the receipt with the given id or store.ErrNotFound.
func (s *SQLiteStore) GetReceipt(ctx context.Context, id int64) (*store.Receipt, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	query, args, err := sq.Select(receiptColumns...).
		From(receiptsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var r store.Receipt
	if err := s.db.GetContext(ctx, &r, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get receipt %d: %w", id, err)
	}
	return &r, nil
}

// ListReceipts returns the receipts matching f, most recent payment first.
func (s *SQLiteStore) ListReceipts(ctx context.Context, f store.ReceiptFilter) ([]store.Receipt, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	q := sq.Select(receiptColumns...).
		From(receiptsTable).
		OrderBy("date_paid DESC", "id DESC")

	if f.Shop != "" {
		q = q.Where(sq.Like{"LOWER(shop)": "%" + strings.ToLower(f.Shop) + "%"})
	}
	if f.AmountFrom > 0 {
		q = q.Where(sq.GtOrEq{"amount": f.AmountFrom})
	}
	if f.AmountTo > 0 {
		q = q.Where(sq.LtOrEq{"amount": f.AmountTo})
	}
	if f.DateFrom != "" {
		q = q.Where(sq.GtOrEq{"date_paid": f.DateFrom})
	}
	if f.DateTo != "" {
		q = q.Where(sq.LtOrEq{"date_paid": f.DateTo})
	}
	if f.PaymentType != "" {
		q = q.Where(sq.Eq{"payment_type": f.PaymentType})
	}
	if f.Currency != "" {
		q = q.Where(sq.Eq{"currency": f.Currency})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	receipts := []store.Receipt{}
	if err := s.db.SelectContext(ctx, &receipts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

// UpdateReceipt overwrites every field of the stored receipt with r.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, r *store.Receipt) error {
	if s.db == nil {
		return errNotOpened
	}
	if err := r.Validate(); err != nil {
		return err
	}

	query, args, err := sq.Update(receiptsTable).
		SetMap(map[string]any{
			"description":  r.Description,
			"shop":         r.Shop,
			"amount":       r.Amount,
			"currency":     r.Currency,
			"payment_type": r.PaymentType,
			"date_paid":    r.DatePaid,
		}).
		Where(sq.Eq{"id": r.ID}).
		ToSql()
	if err != nil {
		return err
	}

	n, err := s.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update receipt %d: %w", r.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", store.ErrNotFound, r.ID)
	}
	return nil
}

// DeleteReceipt removes the receipt with the given id.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(receiptsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	n, err := s.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete receipt %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	return nil
}
