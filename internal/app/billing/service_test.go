package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunaapp/luna-backend/internal/adapters/storage/memory"
	"github.com/lunaapp/luna-backend/internal/app/billing"
	"github.com/lunaapp/luna-backend/internal/domain"
)

const testUser = domain.Identity("abcDEF1234567890ABCD")

// fakePayments scripts the provider responses and records checkout inputs.
type fakePayments struct {
	checkout    *domain.CheckoutSession
	checkoutErr error
	lastInput   domain.CheckoutInput

	portalURL string
	portalErr error

	liveStatus    string
	liveStatusErr error

	event    *domain.PaymentEvent
	eventErr error
}

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, in domain.CheckoutInput) (*domain.CheckoutSession, error) {
	f.lastInput = in
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	if f.checkout != nil {
		return f.checkout, nil
	}
	return &domain.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (f *fakePayments) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if f.portalErr != nil {
		return "", f.portalErr
	}
	if f.portalURL == "" {
		return "https://portal.example/session", nil
	}
	return f.portalURL, nil
}

func (f *fakePayments) SubscriptionStatus(ctx context.Context, subscriptionID string) (string, error) {
	if f.liveStatusErr != nil {
		return "", f.liveStatusErr
	}
	return f.liveStatus, nil
}

func (f *fakePayments) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return f.event, nil
}

func testPlans() map[string]billing.Plan {
	return billing.Plans("price_monthly", "price_3m", "price_yearly")
}

func newTestService(provider domain.PaymentProvider, subs domain.SubscriptionStore) *billing.Service {
	return billing.NewService(provider, subs, testPlans(), "https://app.example.com")
}

func TestCreateCheckout(t *testing.T) {
	provider := &fakePayments{}
	svc := newTestService(provider, memory.NewSubscriptionStore())

	sess, err := svc.CreateCheckout(context.Background(), testUser, "monthly")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.NotEmpty(t, sess.URL)

	in := provider.lastInput
	assert.Equal(t, testUser, in.Identity)
	assert.Equal(t, "monthly", in.PlanID)
	assert.Equal(t, int64(1499), in.AmountCents)
	assert.Equal(t, "eur", in.Currency)
	assert.Contains(t, in.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Contains(t, in.CancelURL, "payment=cancelled")
}

func TestCreateCheckout_UnknownPlan(t *testing.T) {
	svc := newTestService(&fakePayments{}, memory.NewSubscriptionStore())

	_, err := svc.CreateCheckout(context.Background(), testUser, "weekly")
	assert.ErrorIs(t, err, domain.ErrUnknownPlan)
}

func TestCreateCheckout_InvalidIdentity(t *testing.T) {
	svc := newTestService(&fakePayments{}, memory.NewSubscriptionStore())

	_, err := svc.CreateCheckout(context.Background(), "short", "monthly")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestDisabledMode(t *testing.T) {
	svc := newTestService(nil, memory.NewSubscriptionStore())
	assert.False(t, svc.Enabled())

	_, err := svc.CreateCheckout(context.Background(), testUser, "monthly")
	assert.ErrorIs(t, err, domain.ErrBillingNotConfigured)

	err = svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.ErrorIs(t, err, domain.ErrBillingNotConfigured)

	_, err = svc.PortalSession(context.Background(), testUser)
	assert.ErrorIs(t, err, domain.ErrBillingNotConfigured)
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	provider := &fakePayments{event: &domain.PaymentEvent{
		Kind:           domain.PaymentCheckoutCompleted,
		Identity:       testUser,
		SubscriptionID: "sub_1",
		CustomerID:     "cus_1",
	}}
	svc := newTestService(provider, subs)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	sub, err := subs.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, sub.Status)
	assert.Equal(t, "sub_1", sub.SubscriptionID)
	assert.Equal(t, "cus_1", sub.CustomerID)
	assert.Equal(t, "monthly", sub.PlanID, "plan defaults to monthly when the event omits it")
	assert.False(t, sub.CreatedAt.IsZero())
}

func TestHandleWebhook_SubscriptionUpdated(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:       testUser,
		SubscriptionID: "sub_1",
		Status:         domain.StatusActive,
	}))

	provider := &fakePayments{event: &domain.PaymentEvent{
		Kind:           domain.PaymentSubscriptionUpdated,
		SubscriptionID: "sub_1",
		Status:         "past_due",
	}}
	svc := newTestService(provider, subs)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	sub, err := subs.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, sub.Status)
}

func TestHandleWebhook_SubscriptionDeleted(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:       testUser,
		SubscriptionID: "sub_1",
		Status:         domain.StatusActive,
	}))

	provider := &fakePayments{event: &domain.PaymentEvent{
		Kind:           domain.PaymentSubscriptionDeleted,
		SubscriptionID: "sub_1",
	}}
	svc := newTestService(provider, subs)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	sub, err := subs.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, sub.Status)
}

func TestHandleWebhook_UnknownSubscriptionIgnored(t *testing.T) {
	provider := &fakePayments{event: &domain.PaymentEvent{
		Kind:           domain.PaymentSubscriptionDeleted,
		SubscriptionID: "sub_never_seen",
	}}
	svc := newTestService(provider, memory.NewSubscriptionStore())

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestHandleWebhook_IgnoredKind(t *testing.T) {
	provider := &fakePayments{event: &domain.PaymentEvent{Kind: domain.PaymentEventIgnored}}
	svc := newTestService(provider, memory.NewSubscriptionStore())

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	provider := &fakePayments{eventErr: domain.ErrInvalidWebhook}
	svc := newTestService(provider, memory.NewSubscriptionStore())

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidWebhook)
}

func TestStatus_NoRecord(t *testing.T) {
	svc := newTestService(&fakePayments{}, memory.NewSubscriptionStore())

	st, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	assert.False(t, st.IsSubscribed)
	assert.Equal(t, domain.StatusNone, st.Status)
}

func TestStatus_ActiveConfirmedByProvider(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:       testUser,
		SubscriptionID: "sub_1",
		Status:         domain.StatusActive,
		PlanID:         "yearly",
	}))

	svc := newTestService(&fakePayments{liveStatus: "active"}, subs)

	st, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, st.IsSubscribed)
	assert.Equal(t, domain.StatusActive, st.Status)
	assert.Equal(t, "yearly", st.PlanID)
}

func TestStatus_ReconciliationRepairsStaleRecord(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:       testUser,
		SubscriptionID: "sub_1",
		Status:         domain.StatusActive,
	}))

	svc := newTestService(&fakePayments{liveStatus: "canceled"}, subs)

	st, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	assert.False(t, st.IsSubscribed)
	assert.Equal(t, domain.StatusInactive, st.Status)

	sub, err := subs.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, sub.Status, "stale record repaired in the store")
}

func TestStatus_ReconciliationFailureKeepsStoredState(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:       testUser,
		SubscriptionID: "sub_1",
		Status:         domain.StatusActive,
	}))

	svc := newTestService(&fakePayments{liveStatusErr: errors.New("provider down")}, subs)

	st, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, st.IsSubscribed, "stored record wins when the provider is unreachable")
}

func TestStatus_DisabledModeUsesStoredRecord(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity: testUser,
		Status:   domain.StatusActive,
		PlanID:   "three_months",
	}))

	svc := newTestService(nil, subs)

	st, err := svc.Status(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, st.IsSubscribed)
	assert.Equal(t, "three_months", st.PlanID)
}

func TestPortalSession(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity:   testUser,
		CustomerID: "cus_1",
		Status:     domain.StatusActive,
	}))

	svc := newTestService(&fakePayments{portalURL: "https://portal.example/s1"}, subs)

	url, err := svc.PortalSession(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example/s1", url)
}

func TestPortalSession_NoSubscription(t *testing.T) {
	svc := newTestService(&fakePayments{}, memory.NewSubscriptionStore())

	_, err := svc.PortalSession(context.Background(), testUser)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestPortalSession_NoCustomer(t *testing.T) {
	subs := memory.NewSubscriptionStore()
	require.NoError(t, subs.Upsert(context.Background(), &domain.Subscription{
		Identity: testUser,
		Status:   domain.StatusActive,
	}))

	svc := newTestService(&fakePayments{}, subs)

	_, err := svc.PortalSession(context.Background(), testUser)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestPlansCatalog(t *testing.T) {
	plans := testPlans()
	require.Len(t, plans, 3)

	monthly := plans["monthly"]
	assert.Equal(t, "price_monthly", monthly.PriceID)
	assert.Equal(t, int64(1499), monthly.AmountCents)
	assert.Equal(t, "month", monthly.Interval)

	assert.Equal(t, int64(3897), plans["three_months"].AmountCents)
	assert.Equal(t, int64(11988), plans["yearly"].AmountCents)
}
