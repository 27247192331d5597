package models

import "time"

// Plan identifiers. A user whose subscription references no plan is on PlanFree.
const (
	PlanFree         = "free"
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanBusiness     = "business"
)

// Subscription statuses shared by the embedded user subscription and order records.
const (
	StatusCreated = "created"
	StatusActive  = "active"
	StatusFailed  = "failed"
)

// Subscription is the current plan state embedded on a User document.
type Subscription struct {
	PlanID    string    `json:"planId" firestore:"planId"`
	Status    string    `json:"status" firestore:"status"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// User represents an application user. The Firebase Auth UID is the
// Firestore document ID.
type User struct {
	ID           string       `json:"id" firestore:"-"`
	Email        string       `json:"email" firestore:"email"`
	DisplayName  string       `json:"displayName,omitempty" firestore:"displayName"`
	PhotoURL     string       `json:"photoURL,omitempty" firestore:"photoURL"`
	Subscription Subscription `json:"subscription" firestore:"subscription"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// EffectivePlan returns the user's plan id, defaulting to free when the
// subscription has never been populated.
func (u *User) EffectivePlan() string {
	if u == nil || u.Subscription.PlanID == "" {
		return PlanFree
	}
	return u.Subscription.PlanID
}
