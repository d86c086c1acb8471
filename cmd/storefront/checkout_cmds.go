package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/jhumka-storefront/internal/checkout"
	"github.com/angelmondragon/jhumka-storefront/internal/contact"
	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
)

func newCheckoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Show the order summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(_ context.Context, s *session) error {
				summary := s.sf.CheckoutSummary()
				out := cmd.OutOrStdout()
				if a.jsonOut {
					return writeJSON(out, summary)
				}
				return renderSummary(cmd, summary)
			})
		},
	}

	var (
		form    checkout.Form
		payment string
	)
	place := &cobra.Command{
		Use:   "place",
		Short: "Place a cash on delivery order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			method, err := enums.ParsePaymentMethod(payment)
			if err != nil {
				return err
			}
			form.PaymentMethod = method
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				receipt, err := s.sf.Checkout(ctx, form)
				if err != nil {
					return explain(err)
				}
				out := cmd.OutOrStdout()
				if a.jsonOut {
					return writeJSON(out, receipt)
				}
				fmt.Fprintf(out, "Order placed. Reference %s\n", receipt.Reference)
				fmt.Fprintf(out, "Payment: %s\n", receipt.Customer.PaymentMethod.Label())
				return renderSummary(cmd, receipt.Summary)
			})
		},
	}
	f := place.Flags()
	f.StringVar(&form.FirstName, "first-name", "", "first name")
	f.StringVar(&form.LastName, "last-name", "", "last name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Phone, "phone", "", "10-digit phone number")
	f.StringVar(&form.Address, "address", "", "street address")
	f.StringVar(&form.City, "city", "", "city")
	f.StringVar(&form.State, "state", "", "state")
	f.StringVar(&form.Pincode, "pincode", "", "6-digit pincode")
	f.StringVar(&payment, "payment", enums.PaymentMethodCOD.String(), "payment method")
	cmd.AddCommand(place)
	return cmd
}

func renderSummary(cmd *cobra.Command, summary checkout.Summary) error {
	out := cmd.OutOrStdout()
	tw := table(out)
	for _, item := range summary.Items {
		fmt.Fprintf(tw, "%s x %d\t%s\n", item.Name, item.Quantity, money(summary.CurrencySymbol, priceOf(item.Subtotal())))
	}
	fmt.Fprintf(tw, "Subtotal\t%s\n", money(summary.CurrencySymbol, summary.Subtotal))
	fmt.Fprintf(tw, "Shipping\t%s\n", money(summary.CurrencySymbol, summary.Shipping))
	fmt.Fprintf(tw, "Total\t%s\n", money(summary.CurrencySymbol, summary.Total))
	return tw.Flush()
}

func newContactCmd(a *app) *cobra.Command {
	var msg contact.Message
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, s *session) error {
				ack, err := s.sf.Contact(ctx, msg)
				if err != nil {
					return explain(err)
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), ack)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&msg.Name, "name", "", "your name")
	cmd.Flags().StringVar(&msg.Email, "email", "", "your email address")
	cmd.Flags().StringVarP(&msg.Message, "message", "m", "", "message text")
	return cmd
}

// explain folds validation details into the error text so each failing field
// is printed.
func explain(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return err
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || len(details) == 0 {
		return err
	}
	text := typed.Message()
	for _, field := range sortedKeys(details) {
		text += fmt.Sprintf("\n  %s: %s", field, details[field])
	}
	return fmt.Errorf("%s", text)
}
