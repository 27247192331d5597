package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naveensing575/next-pay-flow/internal/models"
)

const accountsCollection = "accounts"

// firestoreAccountRepository implements AccountRepository using Firestore.
type firestoreAccountRepository struct {
	client *firestore.Client
}

// NewFirestoreAccountRepository creates a new Firestore-backed AccountRepository.
func NewFirestoreAccountRepository(client *firestore.Client) AccountRepository {
	if client == nil {
		panic("Firestore client is not initialized for AccountRepository")
	}
	return &firestoreAccountRepository{client: client}
}

func accountDocID(provider, providerAccountID string) string {
	return provider + "_" + providerAccountID
}

// LinkOnce creates the account link if it does not exist yet. The document ID
// encodes the (provider, providerAccountId) pair, so Create enforces the
// at-most-once constraint; an AlreadyExists outcome is not an error.
func (r *firestoreAccountRepository) LinkOnce(ctx context.Context, link *models.AccountLink) error {
	if link.Provider == "" || link.ProviderAccountID == "" {
		return errors.New("provider and providerAccountId are required for LinkOnce operation")
	}
	docID := accountDocID(link.Provider, link.ProviderAccountID)
	_, err := r.client.Collection(accountsCollection).Doc(docID).Create(ctx, link)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create account link %q: %w", docID, err)
	}
	return nil
}

// DeleteByUserID removes all account links for the user. Part of the
// account-deletion cascade.
func (r *firestoreAccountRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for DeleteByUserID operation")
	}
	iter := r.client.Collection(accountsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query account links for user %q: %w", userID, err)
		}
		if _, err := bw.Delete(docSnap.Ref); err != nil {
			return fmt.Errorf("failed to queue delete for account link %q: %w", docSnap.Ref.ID, err)
		}
	}
	bw.End()
	return nil
}
