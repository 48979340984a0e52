package services

import (
	"context"
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/refund"
)

// StripeGateway implémente PaymentGateway au-dessus de Stripe
// (PaymentIntent pour l'encaissement, Refund pour le remboursement).
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) CreateCharge(ctx context.Context, amountMinor int64, currency, method string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{method}),
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		return "", err
	}

	log.Printf("💳 PaymentIntent créé : %s (%d %s)", intent.ID, amountMinor, currency)
	return intent.ID, nil
}

func (g *StripeGateway) CreateRefund(ctx context.Context, transactionID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe refund:", err)
		return err
	}

	log.Printf("💰 Remboursement Stripe créé : %s (intent %s)", r.ID, transactionID)
	return nil
}
