//go:build e2e

package booking_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"taskbridge-server/internal/handler/dto/response"
	"taskbridge-server/tests/common/authtest"
	"taskbridge-server/tests/common/builder"
	"taskbridge-server/tests/common/dbtest"
	"taskbridge-server/tests/common/httptest"
	"taskbridge-server/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	bookingURL      = "/api/bookings/%s"
	cancelURL       = "/api/bookings/%s/cancel"
	availabilityURL = "/api/availability?providerId=%s&date=%s"
	webhookURL      = "/api/payments/webhook"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) createBooking(t *testing.T, token string, providerID uuid.UUID, totalCents int64, slot string) (string, string, int) {
	t.Helper()

	reqBody := builder.NewBookingBuilder().
		WithProviderID(providerID).
		WithTotalCents(totalCents).
		WithTimeSlot(slot).
		BuildCreateRequestDTO()

	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, reqBody, token,
		map[string]string{"Idempotency-Key": uuid.NewString()})

	var created map[string]string
	if w.Code == http.StatusCreated || w.Code == http.StatusOK {
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	}
	return created["bookingId"], created["clientSecret"], w.Code
}

func (s *BookingSuite) postWebhook(t *testing.T, eventType, paymentRef, signature string) int {
	t.Helper()

	payload, err := json.Marshal(e2e.StubEvent{Type: eventType, PaymentRef: paymentRef})
	require.NoError(t, err)

	w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, payload,
		map[string]string{"Stripe-Signature": signature})
	return w.Code
}

// =============================================================================
// TestCreateBooking - Booking creation API tests
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: customer gets a pending booking and a client secret", func() {
		t := s.T()

		customerID := uuid.New()
		token := authtest.SignTestToken(t, customerID)
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, clientSecret, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		require.NotEmpty(t, bookingID)
		require.NotEmpty(t, clientSecret)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, bookingID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var view response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))

		notes := "Ring the doorbell twice"
		expected := response.BookingResponse{
			CustomerID:       customerID,
			ProviderID:       providerID,
			ProviderName:     "Spark Plumbing",
			ServiceType:      "House Cleaning",
			Date:             "2026-09-15",
			TimeSlot:         "10:00 AM",
			DurationHours:    2,
			Status:           "pending_payment",
			TotalCents:       10000,
			PlatformFeeCents: 500,
			Notes:            &notes,
			Address:          "123 Main St, Toronto",
		}
		if diff := cmp.Diff(expected, view,
			cmpopts.IgnoreFields(response.BookingResponse{}, "ID", "CreatedAt", "UpdatedAt")); diff != "" {
			t.Errorf("booking view mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: replaying the same idempotency key returns the same booking", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)
		key := uuid.NewString()
		reqBody := builder.NewBookingBuilder().
			WithProviderID(providerID).
			WithTotalCents(10000).
			BuildCreateRequestDTO()

		first := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, reqBody, token,
			map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, first.Code)
		var firstBody map[string]string
		require.NoError(t, httptest.DecodeResponseBody(t, first.Body, &firstBody))

		second := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, reqBody, token,
			map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusOK, second.Code, "replay should not create twice")
		var secondBody map[string]string
		require.NoError(t, httptest.DecodeResponseBody(t, second.Body, &secondBody))

		require.Equal(t, firstBody["bookingId"], secondBody["bookingId"])
		require.Empty(t, secondBody["clientSecret"], "replay must not leak the client secret")
	})

	s.Run("Error case: a taken slot conflicts", func() {
		t := s.T()

		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		_, _, code := s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)

		_, _, code = s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusConflict, code)
	})

	s.Run("Error case: concurrent requests for the same slot settle to one booking", func() {
		t := s.T()

		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		// Two customers race for the same slot; the partial unique index
		// arbitrates, so exactly one insert wins regardless of interleaving.
		tokens := []string{
			authtest.SignTestToken(t, uuid.New()),
			authtest.SignTestToken(t, uuid.New()),
		}
		codes := make([]int, len(tokens))
		var wg sync.WaitGroup
		for i, token := range tokens {
			wg.Add(1)
			go func() {
				defer wg.Done()

				reqBody := builder.NewBookingBuilder().
					WithProviderID(providerID).
					WithTotalCents(10000).
					WithTimeSlot("10:00 AM").
					BuildCreateRequestDTO()
				w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, reqBody, token,
					map[string]string{"Idempotency-Key": uuid.NewString()})
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		sort.Ints(codes)
		require.Equal(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	})

	s.Run("Error case: client total must match the server-side quote", func() {
		t := s.T()

		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		_, _, code := s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 9999, "10:00 AM")
		require.Equal(t, http.StatusUnprocessableEntity, code)
	})

	s.Run("Error case: unknown provider", func() {
		t := s.T()

		_, _, code := s.createBooking(t, authtest.SignTestToken(t, uuid.New()), uuid.New(), 10000, "10:00 AM")
		require.Equal(t, http.StatusNotFound, code)
	})

	s.Run("Error case: deactivated provider is not bookable", func() {
		t := s.T()

		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)
		dbtest.DeactivateProvider(t, s.DB, providerID)

		_, _, code := s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusNotFound, code)
	})

	s.Run("Error case: expired token is rejected", func() {
		t := s.T()

		reqBody := builder.NewBookingBuilder().
			WithProviderID(dbtest.DefaultProviderID).
			BuildCreateRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, reqBody,
			authtest.SignExpiredToken(t, uuid.New()),
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestAvailability - Slot availability API tests
// =============================================================================

func (s *BookingSuite) TestAvailability() {
	s.Run("Normal case: booked slots show up as taken", func() {
		t := s.T()

		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		_, _, code := s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, providerID, "2026-09-15"), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Contains(t, body["takenSlots"], "10:00 AM")
		require.NotContains(t, body["openSlots"], "10:00 AM")
		require.Contains(t, body["openSlots"], "8:00 AM")
	})

	s.Run("Normal case: cancelling frees the slot", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, bookingID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, providerID, "2026-09-15"), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.NotContains(t, body["takenSlots"], "10:00 AM")
		require.Contains(t, body["openSlots"], "10:00 AM")
	})
}

// =============================================================================
// TestPaymentWebhook - Payment settlement tests
// =============================================================================

func (s *BookingSuite) TestPaymentWebhook() {
	s.Run("Normal case: payment success confirms the booking", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		ref := s.Payments.LastRef()
		require.NotEmpty(t, ref)

		require.Equal(t, http.StatusOK, s.postWebhook(t, "payment_intent.succeeded", ref, e2e.StubSignature))
		require.Equal(t, "confirmed", dbtest.GetBookingStatus(t, s.DB, uuid.MustParse(bookingID)))
		require.Contains(t, s.Payments.EnqueuedBookingIDs(), uuid.MustParse(bookingID))

		// A confirmed booking can no longer be cancelled by the customer
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, bookingID), nil, token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Normal case: payment failure releases the slot", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		ref := s.Payments.LastRef()

		require.Equal(t, http.StatusOK, s.postWebhook(t, "payment_intent.payment_failed", ref, e2e.StubSignature))
		require.Equal(t, "cancelled", dbtest.GetBookingStatus(t, s.DB, uuid.MustParse(bookingID)))

		// Slot is bookable again
		_, _, code = s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
	})

	s.Run("Normal case: replayed success event is acknowledged without side effects", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		ref := s.Payments.LastRef()

		require.Equal(t, http.StatusOK, s.postWebhook(t, "payment_intent.succeeded", ref, e2e.StubSignature))
		require.Equal(t, http.StatusOK, s.postWebhook(t, "payment_intent.succeeded", ref, e2e.StubSignature))
		require.Equal(t, "confirmed", dbtest.GetBookingStatus(t, s.DB, uuid.MustParse(bookingID)))
	})

	s.Run("Error case: bad signature is rejected", func() {
		t := s.T()

		require.Equal(t, http.StatusBadRequest, s.postWebhook(t, "payment_intent.succeeded", "pi_any", "t=0,v1=wrong"))
	})

	s.Run("Normal case: unknown event types are acknowledged", func() {
		t := s.T()

		require.Equal(t, http.StatusOK, s.postWebhook(t, "charge.refunded", "ch_any", e2e.StubSignature))
	})
}

// =============================================================================
// TestCancelBooking - Cancellation API tests
// =============================================================================

func (s *BookingSuite) TestCancelBooking() {
	s.Run("Normal case: cancelling a pending booking voids the authorization", func() {
		t := s.T()

		token := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		ref := s.Payments.LastRef()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, bookingID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "cancelled", dbtest.GetBookingStatus(t, s.DB, uuid.MustParse(bookingID)))
		require.Contains(t, s.Payments.VoidedRefs(), ref)
	})

	s.Run("Error case: cannot cancel someone else's booking", func() {
		t := s.T()

		owner := authtest.SignTestToken(t, uuid.New())
		other := authtest.SignTestToken(t, uuid.New())
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		bookingID, _, code := s.createBooking(t, owner, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, bookingID), nil, other)
		require.Equal(t, http.StatusNotFound, w.Code, "foreign bookings look like they do not exist")
		require.Equal(t, "pending_payment", dbtest.GetBookingStatus(t, s.DB, uuid.MustParse(bookingID)))
	})
}

// =============================================================================
// TestListBookings - Booking list API tests
// =============================================================================

func (s *BookingSuite) TestListBookings() {
	s.Run("Normal case: customer sees only their own bookings", func() {
		t := s.T()

		customerID := uuid.New()
		token := authtest.SignTestToken(t, customerID)
		providerID := dbtest.CreateTestProvider(t, s.DB, "Spark Plumbing", "plumbing", 5000)

		_, _, code := s.createBooking(t, token, providerID, 10000, "10:00 AM")
		require.Equal(t, http.StatusCreated, code)
		_, _, code = s.createBooking(t, token, providerID, 10000, "1:00 PM")
		require.Equal(t, http.StatusCreated, code)

		// Another customer's booking must not appear
		_, _, code = s.createBooking(t, authtest.SignTestToken(t, uuid.New()), providerID, 10000, "3:00 PM")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var body []map[string]any
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body, 2)
	})
}
