package models

import "time"

// AccountLink ties an external identity-provider account to a User. The
// Firestore document ID is "<provider>_<providerAccountId>", so a link can be
// created at most once per pair. Only token refresh fields are ever rewritten.
type AccountLink struct {
	ID                string    `json:"id" firestore:"-"`
	UserID            string    `json:"userId" firestore:"userId"`
	Provider          string    `json:"provider" firestore:"provider"`
	ProviderAccountID string    `json:"providerAccountId" firestore:"providerAccountId"`
	AccessToken       string    `json:"-" firestore:"accessToken,omitempty"`
	RefreshToken      string    `json:"-" firestore:"refreshToken,omitempty"`
	ExpiresAt         int64     `json:"-" firestore:"expiresAt,omitempty"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
