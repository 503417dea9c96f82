package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.uber.org/zap"

	"shyftcut/api/db"
	"shyftcut/api/logger"
	"shyftcut/api/middleware"
	"shyftcut/api/models"
)

type CreateCheckoutRequest struct {
	Tier models.SubscriptionTier `json:"tier" binding:"required"`
}

func priceIDForTier(tier models.SubscriptionTier) string {
	switch tier {
	case models.TierPremium:
		return os.Getenv("STRIPE_PREMIUM_PRICE_ID")
	case models.TierPro:
		return os.Getenv("STRIPE_PRO_PRICE_ID")
	default:
		return ""
	}
}

func tierForPriceID(priceID string) models.SubscriptionTier {
	switch priceID {
	case os.Getenv("STRIPE_PRO_PRICE_ID"):
		return models.TierPro
	default:
		return models.TierPremium
	}
}

// HandleCreateCheckoutSession starts a Stripe subscription checkout. The
// user ID rides in the session metadata so the webhook can link the
// subscription back without a lookup table.
func HandleCreateCheckoutSession(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priceID := priceIDForTier(req.Tier)
	if priceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier"})
		return
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}
	successURL := frontend + "/billing/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := frontend + "/billing/canceled"

	params := &stripe.CheckoutSessionParams{
		SuccessURL:    &successURL,
		CancelURL:     &cancelURL,
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(claims.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": claims.Sub,
			"tier":    string(req.Tier),
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": claims.Sub,
				"tier":    string(req.Tier),
			},
		},
	}

	s, err := session.New(params)
	if err != nil {
		logger.Get().Error("failed to create checkout session",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// HandleStripeWebhook is the only writer of subscription rows besides the
// admin override. The signature was already verified by middleware.
func HandleStripeWebhook(c *gin.Context) {
	value, exists := c.Get(middleware.StripeEventKey)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing event"})
		return
	}
	event, ok := value.(stripe.Event)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			logger.Get().Error("failed to parse checkout session", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := handleCheckoutCompleted(&sess); err != nil {
			logger.Get().Error("failed to apply checkout completion", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			logger.Get().Error("failed to parse subscription", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := handleSubscriptionUpdated(&sub); err != nil {
			logger.Get().Error("failed to apply subscription update", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			logger.Get().Error("failed to parse subscription", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.UpdateSubscriptionStatusByStripeID(sub.ID, models.StatusCanceled, nil, nil); err != nil {
			logger.Get().Error("failed to cancel subscription", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "invoice.paid":
		// A paid renewal invoice clears past_due even if no separate
		// subscription.updated event arrives.
		if !handleInvoiceEvent(c, event, models.StatusActive) {
			return
		}

	case "invoice.payment_failed":
		if !handleInvoiceEvent(c, event, models.StatusPastDue) {
			return
		}

	default:
		logger.Get().Debug("unhandled webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleInvoiceEvent transitions the subscription an invoice bills to the
// given status. Returns false after writing an error response.
func handleInvoiceEvent(c *gin.Context, event stripe.Event, status models.SubscriptionStatus) bool {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		logger.Get().Error("failed to parse invoice", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}

	subID := invoiceSubscriptionID(&invoice)
	if subID == "" {
		// One-off invoices carry no subscription; nothing to transition.
		return true
	}

	if err := db.UpdateSubscriptionStatusByStripeID(subID, status, nil, nil); err != nil {
		logger.Get().Error("failed to update subscription from invoice event",
			zap.String("subscription_id", subID),
			zap.String("status", string(status)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// invoiceSubscriptionID extracts the subscription an invoice bills, or ""
// for sparse or one-off invoices.
func invoiceSubscriptionID(invoice *stripe.Invoice) string {
	if invoice.Parent == nil || invoice.Parent.SubscriptionDetails == nil || invoice.Parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return invoice.Parent.SubscriptionDetails.Subscription.ID
}

func handleCheckoutCompleted(sess *stripe.CheckoutSession) error {
	userID := sess.Metadata["user_id"]
	if userID == "" {
		// Sessions created outside this backend (e.g. a dashboard payment
		// link) have no user to attach the subscription to.
		return fmt.Errorf("checkout session %s has no user_id metadata", sess.ID)
	}
	tier := models.SubscriptionTier(sess.Metadata["tier"])
	if tier != models.TierPremium && tier != models.TierPro {
		tier = models.TierPremium
	}

	var customerID, subscriptionID string
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	now := time.Now().UTC()
	return db.UpsertSubscription(userID, tier, models.StatusActive,
		customerID, subscriptionID, now, now.AddDate(0, 1, 0))
}

func handleSubscriptionUpdated(sub *stripe.Subscription) error {
	status := models.StatusActive
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		status = models.StatusActive
	case stripe.SubscriptionStatusPastDue:
		status = models.StatusPastDue
	case stripe.SubscriptionStatusCanceled:
		status = models.StatusCanceled
	case stripe.SubscriptionStatusUnpaid:
		status = models.StatusUnpaid
	default:
		status = models.StatusIncomplete
	}

	var periodStart, periodEnd *time.Time
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		ps := time.Unix(item.CurrentPeriodStart, 0).UTC()
		pe := time.Unix(item.CurrentPeriodEnd, 0).UTC()
		periodStart, periodEnd = &ps, &pe

		if item.Price != nil {
			tier := tierForPriceID(item.Price.ID)
			if userID := sub.Metadata["user_id"]; userID != "" {
				var customerID string
				if sub.Customer != nil {
					customerID = sub.Customer.ID
				}
				return db.UpsertSubscription(userID, tier, status, customerID, sub.ID, ps, pe)
			}
		}
	}

	return db.UpdateSubscriptionStatusByStripeID(sub.ID, status, periodStart, periodEnd)
}
