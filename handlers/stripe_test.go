package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"shyftcut/api/db"
	"shyftcut/api/middleware"
)

// webhookContext builds a test context carrying a verified event, the way
// the signature middleware leaves it for the handler.
func webhookContext(t *testing.T, eventType string, payload string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook/stripe", nil)
	c.Set(middleware.StripeEventKey, stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	})
	return c, w
}

func withHandlerMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := db.DB
	db.DB = mockDB
	t.Cleanup(func() {
		db.DB = prev
		mockDB.Close()
	})
	return mock
}

func TestWebhookInvoicePaidReactivatesSubscription(t *testing.T) {
	mock := withHandlerMockDB(t)
	mock.ExpectExec("UPDATE subscriptions").
		WithArgs("active", "sub_123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := webhookContext(t, "invoice.paid",
		`{"id":"in_1","parent":{"subscription_details":{"subscription":"sub_123"}}}`)
	HandleStripeWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookInvoicePaymentFailedMarksPastDue(t *testing.T) {
	mock := withHandlerMockDB(t)
	mock.ExpectExec("UPDATE subscriptions").
		WithArgs("past_due", "sub_123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := webhookContext(t, "invoice.payment_failed",
		`{"id":"in_1","parent":{"subscription_details":{"subscription":"sub_123"}}}`)
	HandleStripeWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookInvoiceWithoutSubscriptionIsIgnored(t *testing.T) {
	// One-off invoices have no subscription parent. The handler acks them
	// without touching the database.
	mock := withHandlerMockDB(t)

	c, w := webhookContext(t, "invoice.paid", `{"id":"in_1"}`)
	HandleStripeWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookSparseSubscriptionUpdate(t *testing.T) {
	// Stripe can deliver subscription payloads without an items list. The
	// handler must fall back to a status-only update instead of panicking.
	mock := withHandlerMockDB(t)
	mock.ExpectExec("UPDATE subscriptions").
		WithArgs("past_due", "sub_9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := webhookContext(t, "customer.subscription.updated",
		`{"id":"sub_9","status":"past_due"}`)
	HandleStripeWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutCompletedRequiresUserMetadata(t *testing.T) {
	// A session created outside this backend carries no user_id; writing a
	// row keyed by the empty string would be silently wrong.
	mock := withHandlerMockDB(t)

	sess := &stripe.CheckoutSession{ID: "cs_1", Metadata: map[string]string{}}
	err := handleCheckoutCompleted(sess)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceSubscriptionID(t *testing.T) {
	var invoice stripe.Invoice
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id":"in_1","parent":{"subscription_details":{"subscription":"sub_42"}}}`), &invoice))
	assert.Equal(t, "sub_42", invoiceSubscriptionID(&invoice))

	var oneOff stripe.Invoice
	require.NoError(t, json.Unmarshal([]byte(`{"id":"in_2"}`), &oneOff))
	assert.Equal(t, "", invoiceSubscriptionID(&oneOff))
}
