package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rmed/receipt-keeper/internal/store"
	"github.com/spf13/cobra"
)

func (a *app) receiptCmd() *cobra.Command {
	receiptCmd := &cobra.Command{
		Use:     "receipt",
		Aliases: []string{"receipts"},
		Short:   "Record, browse and edit receipts",
	}

	receiptCmd.AddCommand(a.receiptAddCmd(), a.receiptListCmd(), a.receiptShowCmd(), a.receiptEditCmd(), a.receiptDeleteCmd())
	return receiptCmd
}

// bindReceiptFlags registers the editable receipt fields on cmd.
func bindReceiptFlags(cmd *cobra.Command, r *store.Receipt) {
	cmd.Flags().StringVar(&r.Shop, "shop", "", "shop name")
	cmd.Flags().Float64Var(&r.Amount, "amount", 0, "amount paid")
	cmd.Flags().StringVar(&r.Currency, "currency", "EUR", "currency code")
	cmd.Flags().StringVar(&r.PaymentType, "type", "cash", "payment type ("+strings.Join(store.PaymentTypes, ", ")+")")
	cmd.Flags().StringVar(&r.DatePaid, "date", time.Now().Format(store.DateLayout), "payment date, YYYY-MM-DD")
	cmd.Flags().StringVar(&r.Description, "description", "", "free text description")
}

func (a *app) receiptAddCmd() *cobra.Command {
	var r store.Receipt
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.AddReceipt(cmd.Context(), &r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added receipt %d\n", r.ID)
			return nil
		},
	}
	bindReceiptFlags(cmd, &r)
	return cmd
}

func (a *app) receiptListCmd() *cobra.Command {
	var f store.ReceiptFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receipts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			receipts, err := s.ListReceipts(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeReceipts(cmd.OutOrStdout(), receipts)
		},
	}
	cmd.Flags().StringVar(&f.Shop, "shop", "", "shop name contains")
	cmd.Flags().Float64Var(&f.AmountFrom, "amount-from", 0, "minimum amount")
	cmd.Flags().Float64Var(&f.AmountTo, "amount-to", 0, "maximum amount")
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "paid on or after, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "paid on or before, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.PaymentType, "type", "", "payment type")
	cmd.Flags().StringVar(&f.Currency, "currency", "", "currency code")
	return cmd
}

func (a *app) receiptShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a single receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.GetReceipt(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeReceipts(cmd.OutOrStdout(), []store.Receipt{*r})
		},
	}
}

func (a *app) receiptEditCmd() *cobra.Command {
	var edits store.Receipt
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.GetReceipt(cmd.Context(), id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("shop") {
				r.Shop = edits.Shop
			}
			if flags.Changed("amount") {
				r.Amount = edits.Amount
			}
			if flags.Changed("currency") {
				r.Currency = edits.Currency
			}
			if flags.Changed("type") {
				r.PaymentType = edits.PaymentType
			}
			if flags.Changed("date") {
				r.DatePaid = edits.DatePaid
			}
			if flags.Changed("description") {
				r.Description = edits.Description
			}

			if err := s.UpdateReceipt(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated receipt %d\n", r.ID)
			return nil
		},
	}
	bindReceiptFlags(cmd, &edits)
	return cmd
}

func (a *app) receiptDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a receipt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openMigrated(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteReceipt(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted receipt %d\n", id)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid receipt id %q", arg)
	}
	return id, nil
}

func writeReceipts(w io.Writer, receipts []store.Receipt) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSHOP\tAMOUNT\tCURRENCY\tTYPE\tDESCRIPTION")
	for _, r := range receipts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\t%s\t%s\n", r.ID, r.DatePaid, r.Shop, r.Amount, r.Currency, r.PaymentType, r.Description)
	}
	return tw.Flush()
}
