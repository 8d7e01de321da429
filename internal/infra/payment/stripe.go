package payment

import (
	"context"
	"encoding/json"

	"taskbridge-server/internal/pkg/config"
	"taskbridge-server/internal/pkg/errs"
	"taskbridge-server/internal/usecase/commands"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway opens manual-capture PaymentIntents as escrow holds and
// verifies the webhook events Stripe sends back about them.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (g *StripeGateway) Authorize(ctx context.Context, req commands.AuthorizationRequest) (*commands.Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		Description:   stripe.String(req.Description),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create payment intent")
	}

	return &commands.Authorization{
		Ref:          pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (g *StripeGateway) Void(ctx context.Context, ref string) error {
	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}
	if _, err := g.api.PaymentIntents.Cancel(ref, params); err != nil {
		return errs.Wrap(err, "failed to cancel payment intent")
	}
	return nil
}

// VerifyEvent checks the Stripe-Signature header against the endpoint secret
// and maps the event onto the reconciler's vocabulary. Event types the core
// does not track come back as ignored, not as errors.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*commands.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, errs.Wrap(err, "webhook signature verification failed")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return paymentEventFrom(event, commands.EventPaymentSucceeded)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return paymentEventFrom(event, commands.EventPaymentFailed)
	default:
		return &commands.PaymentEvent{
			Kind: commands.EventIgnored,
			Type: string(event.Type),
		}, nil
	}
}

func paymentEventFrom(event stripe.Event, kind commands.EventKind) (*commands.PaymentEvent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, errs.Wrap(err, "failed to parse payment intent from event")
	}
	return &commands.PaymentEvent{
		Kind:             kind,
		AuthorizationRef: pi.ID,
		Type:             string(event.Type),
	}, nil
}
