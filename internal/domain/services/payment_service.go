package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
)

// CreditPack is a purchasable bundle of credits.
type CreditPack struct {
	ID      string `json:"id"`
	Credits int    `json:"credits"`
	// PriceCents is the USD price in cents.
	PriceCents int64 `json:"price_cents"`
}

var CreditPacks = map[string]CreditPack{
	"starter": {ID: "starter", Credits: 100, PriceCents: 499},
	"growth":  {ID: "growth", Credits: 500, PriceCents: 1999},
	"scale":   {ID: "scale", Credits: 2000, PriceCents: 5999},
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID int64, packID, successURL, cancelURL string) (url string, sessionID string, err error)
	// HandleWebhook verifies the stripe signature and credits the user on
	// a completed checkout.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type stripeService struct {
	ledger        *CreditLedger
	webhookSecret string
	logger        *slog.Logger
}

func NewStripeService(ledger *CreditLedger, stripeSecret, webhookSecret string, logger *slog.Logger) PaymentService {
	stripe.Key = stripeSecret
	return &stripeService{
		ledger:        ledger,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (s *stripeService) CreateCheckoutSession(ctx context.Context, userID int64, packID, successURL, cancelURL string) (string, string, error) {
	pack, exists := CreditPacks[packID]
	if !exists {
		return "", "", apperrors.Validation(fmt.Sprintf("unknown credit pack: %s", packID))
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(pack.PriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%d credits", pack.Credits)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"pack_id": pack.ID,
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, sess.ID, nil
}

func (s *stripeService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return apperrors.AuthInvalid("invalid webhook signature")
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	metadata := event.GetObjectValue("metadata", "user_id")
	packID := event.GetObjectValue("metadata", "pack_id")
	userID, err := strconv.ParseInt(metadata, 10, 64)
	if err != nil {
		return fmt.Errorf("webhook missing user_id metadata: %w", err)
	}

	pack, exists := CreditPacks[packID]
	if !exists {
		return fmt.Errorf("webhook carries unknown pack %q", packID)
	}

	balance, err := s.ledger.AddCredits(ctx, userID, pack.Credits)
	if err != nil {
		return fmt.Errorf("failed to credit user %d for pack %s: %w", userID, packID, err)
	}

	s.logger.Info("credit pack purchased",
		"user_id", userID, "pack", packID, "credits", pack.Credits, "balance", balance)
	return nil
}
