package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/naveensing575/next-pay-flow/internal/db"
	"github.com/naveensing575/next-pay-flow/internal/events"
	"github.com/naveensing575/next-pay-flow/internal/models"
)

func newTestUserService(userRepo *mockUserRepo, orderRepo *mockOrderRepo, accountRepo *mockAccountRepo, pub *recordingPublisher) UserService {
	return NewUserService(userRepo, orderRepo, accountRepo, pub, zap.NewNop())
}

func TestGetOrCreateReturnsExistingUser(t *testing.T) {
	existing := &models.User{ID: "user-1", Email: "a@example.com"}
	userRepo := &mockUserRepo{
		getByIDFn: func(context.Context, string) (*models.User, error) {
			return existing, nil
		},
		createFn: func(context.Context, *models.User) error {
			t.Fatal("create must not be called when the user exists")
			return nil
		},
	}

	svc := newTestUserService(userRepo, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})
	user, created, err := svc.GetOrCreate(context.Background(), "user-1", "a@example.com", "", "")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if created {
		t.Error("expected created=false for an existing user")
	}
	if user != existing {
		t.Error("expected the stored user to be returned")
	}
}

func TestGetOrCreateBootstrapsFreePlan(t *testing.T) {
	var createdUser *models.User
	userRepo := &mockUserRepo{
		getByIDFn: func(context.Context, string) (*models.User, error) {
			return nil, db.ErrNotFound
		},
		createFn: func(_ context.Context, user *models.User) error {
			createdUser = user
			return nil
		},
	}

	svc := newTestUserService(userRepo, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})
	user, created, err := svc.GetOrCreate(context.Background(), "user-1", "a@example.com", "Ada", "https://p.example/a.png")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if !created {
		t.Error("expected created=true on first sign-in")
	}
	if createdUser == nil {
		t.Fatal("expected user document to be written")
	}
	if user.Subscription.PlanID != models.PlanFree || user.Subscription.Status != models.StatusActive {
		t.Errorf("expected active free subscription, got %+v", user.Subscription)
	}
	if user.DisplayName != "Ada" || user.Email != "a@example.com" {
		t.Errorf("unexpected profile fields: %+v", user)
	}
}

func TestGetOrCreateLosingRacerLoadsWinner(t *testing.T) {
	winner := &models.User{ID: "user-1", Email: "a@example.com", DisplayName: "Winner"}
	calls := 0
	userRepo := &mockUserRepo{
		getByIDFn: func(context.Context, string) (*models.User, error) {
			calls++
			if calls == 1 {
				return nil, db.ErrNotFound
			}
			return winner, nil
		},
		createFn: func(context.Context, *models.User) error {
			return db.ErrAlreadyExists
		},
	}

	svc := newTestUserService(userRepo, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})
	user, created, err := svc.GetOrCreate(context.Background(), "user-1", "a@example.com", "Loser", "")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if created {
		t.Error("expected created=false for the losing racer")
	}
	if user != winner {
		t.Error("expected the winning writer's document to be returned")
	}
}

func TestGetOrCreateRequiresIdentity(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{}, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})

	if _, _, err := svc.GetOrCreate(context.Background(), "", "a@example.com", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty uid, got %v", err)
	}
	if _, _, err := svc.GetOrCreate(context.Background(), "user-1", "", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty email, got %v", err)
	}
}

func TestLinkAccountValidatesLink(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{}, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})

	err := svc.LinkAccount(context.Background(), &models.AccountLink{UserID: "user-1", Provider: "google.com"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing providerAccountId, got %v", err)
	}
}

func TestUpdateProfileTrimsAndRejectsBlankName(t *testing.T) {
	var gotName string
	userRepo := &mockUserRepo{
		updateNameFn: func(_ context.Context, _, name string) error {
			gotName = name
			return nil
		},
	}
	svc := newTestUserService(userRepo, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})

	if err := svc.UpdateProfile(context.Background(), "user-1", "  Ada Lovelace  "); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if gotName != "Ada Lovelace" {
		t.Errorf("expected trimmed name, got %q", gotName)
	}

	if err := svc.UpdateProfile(context.Background(), "user-1", "   "); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank name, got %v", err)
	}
}

func TestUpdateProfileMapsMissingUser(t *testing.T) {
	userRepo := &mockUserRepo{
		updateNameFn: func(context.Context, string, string) error {
			return db.ErrNotFound
		},
	}
	svc := newTestUserService(userRepo, &mockOrderRepo{}, &mockAccountRepo{}, &recordingPublisher{})

	if err := svc.UpdateProfile(context.Background(), "ghost", "Name"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteAccountCascadeOrder(t *testing.T) {
	var sequence []string
	orderRepo := &mockOrderRepo{
		deleteByUserIDFn: func(context.Context, string) error {
			sequence = append(sequence, "orders")
			return nil
		},
	}
	accountRepo := &mockAccountRepo{
		deleteByUserIDFn: func(context.Context, string) error {
			sequence = append(sequence, "accounts")
			return nil
		},
	}
	userRepo := &mockUserRepo{
		deleteFn: func(context.Context, string) error {
			sequence = append(sequence, "user")
			return nil
		},
	}
	pub := &recordingPublisher{}

	svc := newTestUserService(userRepo, orderRepo, accountRepo, pub)
	if err := svc.DeleteAccount(context.Background(), "user-1"); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	want := []string{"orders", "accounts", "user"}
	if len(sequence) != len(want) {
		t.Fatalf("expected cascade %v, got %v", want, sequence)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Fatalf("expected cascade %v, got %v", want, sequence)
		}
	}

	published := pub.published()
	if len(published) != 1 || published[0].Type != events.EventAccountDeleted {
		t.Errorf("expected one account.deleted event, got %+v", published)
	}
}

func TestDeleteAccountStopsOnDependentFailure(t *testing.T) {
	orderRepo := &mockOrderRepo{
		deleteByUserIDFn: func(context.Context, string) error {
			return errors.New("firestore unavailable")
		},
	}
	userRepo := &mockUserRepo{
		deleteFn: func(context.Context, string) error {
			t.Fatal("user must not be deleted while dependents remain")
			return nil
		},
	}

	svc := newTestUserService(userRepo, orderRepo, &mockAccountRepo{}, &recordingPublisher{})
	if err := svc.DeleteAccount(context.Background(), "user-1"); err == nil {
		t.Error("expected error when order deletion fails")
	}
}
