package domain

import (
	"strings"
	"time"
)

// SubscriptionStatus is the billing state of an account.
type SubscriptionStatus string

const (
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionCanceled, SubscriptionExpired:
		return true
	default:
		return false
	}
}

// Profile is the per-account record kept next to the managed auth user.
type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        time.Time          `json:"trial_ends_at"`
	StripeCustomerID   string             `json:"stripe_customer_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// HasAccess reports whether premium features are unlocked: an active
// subscription, or a trial that has not ended yet.
func (p *Profile) HasAccess(now time.Time) bool {
	if p == nil {
		return false
	}
	switch p.SubscriptionStatus {
	case SubscriptionActive:
		return true
	case SubscriptionTrial:
		return p.TrialEndsAt.After(now)
	default:
		return false
	}
}

// ValidEmail is a shape check only; the auth service owns verification.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}

var ErrProfileNotFound = NewError(ErrCodeNotFound, "profile not found")
