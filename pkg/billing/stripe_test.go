package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/profiles"
	"github.com/toneelevate/tonesmith/pkg/profiles/profilestest"
)

const (
	testWebhookSecret = "whsec_test_secret"
	testUserID        = "5b2f0c9e-1d3a-4f6b-8e7c-2a9d4b1c0e55"
)

// mockStripeAPI records calls and returns canned objects
type mockStripeAPI struct {
	customerErr error
	sessionErr  error
	updateErr   error

	customers     []*stripe.CustomerParams
	sessions      []*stripe.CheckoutSessionParams
	updatedSubIDs []string
	updates       []*stripe.SubscriptionParams
}

func (m *mockStripeAPI) CreateCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	m.customers = append(m.customers, params)
	if m.customerErr != nil {
		return nil, m.customerErr
	}
	return &stripe.Customer{ID: "cus_new"}, nil
}

func (m *mockStripeAPI) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.sessions = append(m.sessions, params)
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (m *mockStripeAPI) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	m.updatedSubIDs = append(m.updatedSubIDs, id)
	m.updates = append(m.updates, params)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &stripe.Subscription{ID: id, CancelAtPeriodEnd: true}, nil
}

var _ StripeAPI = &mockStripeAPI{}

type fixture struct {
	service *Service
	api     *mockStripeAPI
	db      *sql.DB
	store   *profiles.Store
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := profilestest.NewDB(t)
	m := metrics.New(prometheus.NewRegistry())
	store := profiles.NewStore(db, m)
	api := &mockStripeAPI{}
	svc := NewService(api, store, &StripeConfig{
		WebhookSecret: testWebhookSecret,
		SuccessURL:    "https://toneelevate.com/billing/success",
		CancelURL:     "https://toneelevate.com/billing/cancel",
	}, m, logger.Nop())
	return &fixture{service: svc, api: api, db: db, store: store, metrics: m}
}

// sign builds a Stripe-Signature header for payload
func sign(payload []byte, secret string, ts time.Time) string {
	unix := ts.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", unix)))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", unix, hex.EncodeToString(mac.Sum(nil)))
}

func event(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_test","object":"event","type":%q,"data":{"object":%s}}`, eventType, object))
}

func (f *fixture) deliver(t *testing.T, payload []byte) {
	t.Helper()
	require.NoError(t, f.service.HandleWebhook(context.Background(), payload, sign(payload, testWebhookSecret, time.Now())))
}

// --- Checkout ---

func TestCreateCheckoutSession_CreatesCustomer(t *testing.T) {
	f := newFixture(t)
	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, SubscriptionStatus: "free"})

	resp, err := f.service.CreateCheckoutSession(context.Background(), testUserID, "writer@example.com", "price_monthly")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.URL)

	require.Len(t, f.api.customers, 1)
	assert.Equal(t, "writer@example.com", *f.api.customers[0].Email)
	assert.Equal(t, testUserID, f.api.customers[0].Metadata["user_id"])

	require.Len(t, f.api.sessions, 1)
	sess := f.api.sessions[0]
	assert.Equal(t, "cus_new", *sess.Customer)
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *sess.Mode)
	assert.Equal(t, "price_monthly", *sess.LineItems[0].Price)
	assert.Equal(t, "https://toneelevate.com/billing/success", *sess.SuccessURL)

	profile, err := f.store.GetProfile(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "cus_new", profile.StripeCustomerID)
}

func TestCreateCheckoutSession_ReusesCustomer(t *testing.T) {
	f := newFixture(t)
	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, StripeCustomerID: "cus_existing"})

	_, err := f.service.CreateCheckoutSession(context.Background(), testUserID, "", "price_monthly")
	require.NoError(t, err)

	assert.Empty(t, f.api.customers)
	assert.Equal(t, "cus_existing", *f.api.sessions[0].Customer)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateCheckoutSession(context.Background(), testUserID, "", "price_monthly")
	assert.True(t, domain.IsNotFound(err))

	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID})
	f.api.customerErr = errors.New("stripe down")
	_, err = f.service.CreateCheckoutSession(context.Background(), testUserID, "", "price_monthly")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInternal, domain.GetErrorCode(err))
	assert.Empty(t, f.api.sessions)
}

// --- Cancel ---

func TestCancelSubscription(t *testing.T) {
	f := newFixture(t)
	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, SubscriptionStatus: "active", SubscriptionID: "sub_123"})

	resp, err := f.service.CancelSubscription(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, CancelMessage, resp.Message)
	assert.Equal(t, []string{"sub_123"}, f.api.updatedSubIDs)
	assert.True(t, *f.api.updates[0].CancelAtPeriodEnd)
}

func TestCancelSubscription_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CancelSubscription(context.Background(), testUserID)
	assert.True(t, domain.IsNotFound(err))

	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, SubscriptionStatus: "free"})
	_, err = f.service.CancelSubscription(context.Background(), testUserID)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "No active subscription found.", domain.PublicMessage(err))
	assert.Empty(t, f.api.updatedSubIDs)
}

// --- Webhook ---

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newFixture(t)
	payload := event(EventInvoicePaymentFailed, `{"id":"in_1","object":"invoice","customer":"cus_1"}`)

	for _, header := range []string{
		"",
		"t=1,v1=deadbeef",
		sign(payload, "whsec_other", time.Now()),
		sign(payload, testWebhookSecret, time.Now().Add(-time.Hour)),
	} {
		err := f.service.HandleWebhook(context.Background(), payload, header)
		require.Error(t, err, header)
		assert.True(t, domain.IsValidation(err), header)
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues("unknown", "invalid_signature")))
}

func TestHandleWebhook_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, SubscriptionStatus: "free", StripeCustomerID: "cus_1"})
	ctx := context.Background()

	status := func() (string, string) {
		p, err := f.store.GetProfile(ctx, testUserID)
		require.NoError(t, err)
		return p.SubscriptionStatus, p.SubscriptionID
	}

	f.deliver(t, event(EventCheckoutCompleted,
		`{"id":"cs_1","object":"checkout.session","customer":"cus_1","subscription":"sub_9"}`))
	s, sub := status()
	assert.Equal(t, "active", s)
	assert.Equal(t, "sub_9", sub)

	f.deliver(t, event(EventInvoicePaymentFailed, `{"id":"in_1","object":"invoice","customer":"cus_1"}`))
	s, sub = status()
	assert.Equal(t, "past_due", s)
	assert.Equal(t, "sub_9", sub, "invoice events keep the subscription id")

	f.deliver(t, event(EventInvoicePaymentSucceeded, `{"id":"in_2","object":"invoice","customer":"cus_1"}`))
	s, _ = status()
	assert.Equal(t, "active", s)

	f.deliver(t, event(EventSubscriptionUpdated,
		`{"id":"sub_9","object":"subscription","customer":"cus_1","status":"trialing"}`))
	s, _ = status()
	assert.Equal(t, "trialing", s)

	f.deliver(t, event(EventSubscriptionDeleted,
		`{"id":"sub_9","object":"subscription","customer":"cus_1","status":"canceled"}`))
	s, sub = status()
	assert.Equal(t, "inactive", s)
	assert.Empty(t, sub)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues(EventSubscriptionDeleted, "applied")))
}

func TestHandleWebhook_AcknowledgesWithoutChanges(t *testing.T) {
	f := newFixture(t)
	profilestest.Insert(t, f.db, profilestest.Row{ID: testUserID, SubscriptionStatus: "free", StripeCustomerID: "cus_1"})

	f.deliver(t, event("customer.created", `{"id":"cus_1","object":"customer"}`))
	f.deliver(t, event(EventInvoicePaymentSucceeded, `{"id":"in_1","object":"invoice","customer":"cus_unknown"}`))
	f.deliver(t, event(EventInvoicePaymentSucceeded, `{"id":"in_2","object":"invoice"}`))

	p, err := f.store.GetProfile(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "free", p.SubscriptionStatus)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues("customer.created", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues(EventInvoicePaymentSucceeded, "unmatched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues(EventInvoicePaymentSucceeded, "no_customer")))
}

func TestHandleWebhook_StoreFailureIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Close())

	payload := event(EventInvoicePaymentFailed, `{"id":"in_1","object":"invoice","customer":"cus_1"}`)
	err := f.service.HandleWebhook(context.Background(), payload, sign(payload, testWebhookSecret, time.Now()))

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StripeEvents.WithLabelValues(EventInvoicePaymentFailed, "error")))
}
