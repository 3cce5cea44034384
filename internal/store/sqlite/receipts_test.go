package sqlite

import (
	"context"
	"testing"

	"github.com/rmed/receipt-keeper/internal/store"
	"github.com/stretchr/testify/require"
)

func seedReceipts(t *testing.T, s *SQLiteStore) []store.Receipt {
	t.Helper()

	receipts := []store.Receipt{
		{Shop: "Corner Bakery", Amount: 3.20, Currency: "EUR", PaymentType: "cash", DatePaid: "2016-03-01"},
		{Shop: "Hardware Depot", Amount: 54.99, Currency: "EUR", PaymentType: "card", DatePaid: "2016-03-15", Description: "drill bits"},
		{Shop: "Book Nook", Amount: 12.00, Currency: "GBP", PaymentType: "card", DatePaid: "2016-04-02"},
		{Shop: "bakery express", Amount: 7.50, Currency: "EUR", PaymentType: "transfer", DatePaid: "2016-04-20"},
	}
	for i := range receipts {
		require.NoError(t, s.AddReceipt(context.Background(), &receipts[i]))
		require.NotZero(t, receipts[i].ID)
	}
	return receipts
}

func TestReceiptCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMigratedStore(t)

	r := store.Receipt{Shop: "Market", Amount: 9.75, Currency: "EUR", PaymentType: "cash", DatePaid: "2016-06-11"}
	require.NoError(t, s.AddReceipt(ctx, &r))

	got, err := s.GetReceipt(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, r, *got)

	r.Description = "weekly groceries"
	r.Amount = 10.25
	require.NoError(t, s.UpdateReceipt(ctx, &r))

	got, err = s.GetReceipt(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, "weekly groceries", got.Description)
	require.Equal(t, 10.25, got.Amount)

	require.NoError(t, s.DeleteReceipt(ctx, r.ID))
	_, err = s.GetReceipt(ctx, r.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.DeleteReceipt(ctx, r.ID), store.ErrNotFound)
	require.ErrorIs(t, s.UpdateReceipt(ctx, &r), store.ErrNotFound)
}

func TestAddReceiptValidates(t *testing.T) {
	t.Parallel()

	s := NewMigratedStore(t)
	err := s.AddReceipt(context.Background(), &store.Receipt{Shop: "Market", Currency: "EUR", PaymentType: "cash", DatePaid: "11/06/2016"})
	require.ErrorIs(t, err, store.ErrInvalidReceipt)

	receipts, err := s.ListReceipts(context.Background(), store.ReceiptFilter{})
	require.NoError(t, err)
	require.Empty(t, receipts)
}

func TestListReceiptsFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMigratedStore(t)
	seeded := seedReceipts(t, s)

	tests := []struct {
		name   string
		filter store.ReceiptFilter
		want   []int // indexes into seeded, in expected order
	}{
		{name: "no filter, newest first", filter: store.ReceiptFilter{}, want: []int{3, 2, 1, 0}},
		{name: "shop substring any case", filter: store.ReceiptFilter{Shop: "BAKERY"}, want: []int{3, 0}},
		{name: "amount range", filter: store.ReceiptFilter{AmountFrom: 5, AmountTo: 20}, want: []int{3, 2}},
		{name: "date range inclusive", filter: store.ReceiptFilter{DateFrom: "2016-03-15", DateTo: "2016-04-02"}, want: []int{2, 1}},
		{name: "payment type", filter: store.ReceiptFilter{PaymentType: "card"}, want: []int{2, 1}},
		{name: "currency", filter: store.ReceiptFilter{Currency: "GBP"}, want: []int{2}},
		{name: "combined", filter: store.ReceiptFilter{Currency: "EUR", PaymentType: "card"}, want: []int{1}},
		{name: "no match", filter: store.ReceiptFilter{Shop: "pharmacy"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListReceipts(ctx, tt.filter)
			require.NoError(t, err)

			want := make([]store.Receipt, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, seeded[i])
			}
			require.Equal(t, want, got)
		})
	}
}

func TestListReceiptsBadFilter(t *testing.T) {
	t.Parallel()

	s := NewMigratedStore(t)
	_, err := s.ListReceipts(context.Background(), store.ReceiptFilter{DateFrom: "yesterday"})
	require.Error(t, err)
}
