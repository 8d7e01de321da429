//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskbridge-server/internal/usecase/commands"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// StubSignature is the only signature the stub verifier accepts, so tests can
// exercise both the accept and reject paths of the webhook endpoint.
const StubSignature = "t=0,v1=stub"

// StubEvent is what e2e tests POST to the webhook endpoint in place of a real
// provider event.
type StubEvent struct {
	Type       string `json:"type"`
	PaymentRef string `json:"payment_ref"`
}

// PaymentStub stands in for the real payment provider in e2e runs: it hands
// out authorization refs without any network call and records everything the
// application asks it to do.
type PaymentStub struct {
	mu         sync.Mutex
	seq        int
	authorized []commands.AuthorizationRequest
	refs       []string
	voided     []string
	enqueued   []uuid.UUID

	AuthorizeErr error
}

func NewPaymentStub() *PaymentStub {
	return &PaymentStub{}
}

func (s *PaymentStub) Authorize(_ context.Context, req commands.AuthorizationRequest) (*commands.Authorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AuthorizeErr != nil {
		return nil, s.AuthorizeErr
	}

	s.seq++
	ref := fmt.Sprintf("pi_stub_%04d", s.seq)
	s.authorized = append(s.authorized, req)
	s.refs = append(s.refs, ref)

	return &commands.Authorization{
		Ref:          ref,
		ClientSecret: ref + "_secret",
	}, nil
}

func (s *PaymentStub) Void(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voided = append(s.voided, ref)
	return nil
}

func (s *PaymentStub) VerifyEvent(payload []byte, signature string) (*commands.PaymentEvent, error) {
	if signature != StubSignature {
		return nil, errors.New("stub signature mismatch")
	}

	var event StubEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Wrap(err, "malformed stub event")
	}

	kind := commands.EventIgnored
	switch event.Type {
	case "payment_intent.succeeded":
		kind = commands.EventPaymentSucceeded
	case "payment_intent.payment_failed":
		kind = commands.EventPaymentFailed
	}

	return &commands.PaymentEvent{
		Kind:             kind,
		AuthorizationRef: event.PaymentRef,
		Type:             event.Type,
	}, nil
}

func (s *PaymentStub) EnqueueBookingConfirmed(_ context.Context, bookingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued = append(s.enqueued, bookingID)
	return nil
}

// LastRef returns the most recently issued authorization ref.
func (s *PaymentStub) LastRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.refs) == 0 {
		return ""
	}
	return s.refs[len(s.refs)-1]
}

func (s *PaymentStub) VoidedRefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.voided...)
}

func (s *PaymentStub) EnqueuedBookingIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.enqueued...)
}
