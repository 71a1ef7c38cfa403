package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ovaldezb/aws-microservices/pkg/errs"
	"github.com/ovaldezb/aws-microservices/services/basket/models"
	"github.com/ovaldezb/aws-microservices/services/events"
)

// fakeBasketRepo is an in-memory BasketRepo.
type fakeBasketRepo struct {
	baskets map[string]*models.Basket
	getErr  error
	delErr  error
	deletes []string
}

func newFakeBasketRepo() *fakeBasketRepo {
	return &fakeBasketRepo{baskets: map[string]*models.Basket{}}
}

func (f *fakeBasketRepo) Get(ctx context.Context, userName string) (*models.Basket, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.baskets[userName], nil
}

func (f *fakeBasketRepo) GetAll(ctx context.Context) ([]models.Basket, error) {
	var out []models.Basket
	for _, b := range f.baskets {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBasketRepo) Save(ctx context.Context, basket *models.Basket) error {
	f.baskets[basket.UserName] = basket
	return nil
}

func (f *fakeBasketRepo) Delete(ctx context.Context, userName string) error {
	f.deletes = append(f.deletes, userName)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.baskets, userName)
	return nil
}

// capturePublisher records published envelopes.
type capturePublisher struct {
	envelopes []events.Envelope
	err       error
}

func (p *capturePublisher) Publish(ctx context.Context, env events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, env)
	return nil
}

func newTestService(repo *fakeBasketRepo, pub *capturePublisher) *CheckoutService {
	return NewCheckoutService(repo, pub, nil, zap.NewNop(), "", "")
}

func aliceBasket() *models.Basket {
	return &models.Basket{
		UserName: "alice",
		Items: []models.BasketItem{
			{ProductID: "p1", ProductName: "Phone", Quantity: 2, Price: 10},
			{ProductID: "p2", ProductName: "Case", Quantity: 1, Price: 5},
		},
	}
}

func TestCheckout_MissingUserName(t *testing.T) {
	repo := newFakeBasketRepo()
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)

	err := svc.Checkout(context.Background(), models.CheckoutRequest{})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(pub.envelopes) != 0 {
		t.Fatalf("no event should be published on validation failure")
	}
}

func TestCheckout_NoBasket(t *testing.T) {
	repo := newFakeBasketRepo()
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)

	err := svc.Checkout(context.Background(), models.CheckoutRequest{UserName: "ghost"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(pub.envelopes) != 0 {
		t.Fatalf("no event should be published when the basket is absent")
	}
}

func TestCheckout_EmptyBasket(t *testing.T) {
	repo := newFakeBasketRepo()
	repo.baskets["alice"] = &models.Basket{UserName: "alice"}
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)

	err := svc.Checkout(context.Background(), models.CheckoutRequest{UserName: "alice"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not-found error for empty basket, got %v", err)
	}
	if len(pub.envelopes) != 0 {
		t.Fatalf("no event should be published for an empty basket")
	}
}

func TestCheckout_PublishFailureKeepsBasket(t *testing.T) {
	repo := newFakeBasketRepo()
	repo.baskets["alice"] = aliceBasket()
	pub := &capturePublisher{err: fmt.Errorf("bus unavailable")}
	svc := newTestService(repo, pub)

	err := svc.Checkout(context.Background(), models.CheckoutRequest{UserName: "alice"})
	if !errors.Is(err, errs.ErrPublish) {
		t.Fatalf("expected publish error, got %v", err)
	}
	if len(repo.deletes) != 0 {
		t.Fatalf("basket must not be deleted when publish fails")
	}
	if repo.baskets["alice"] == nil {
		t.Fatalf("basket should still be retrievable after failed publish")
	}
}

func TestCheckout_Success(t *testing.T) {
	repo := newFakeBasketRepo()
	repo.baskets["alice"] = aliceBasket()
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	req := models.CheckoutRequest{
		UserName:  "alice",
		FirstName: "Alice",
		Email:     "alice@example.com",
		Address:   "1 Main St",
	}
	if err := svc.Checkout(context.Background(), req); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if len(pub.envelopes) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(pub.envelopes))
	}
	env := pub.envelopes[0]
	if env.Source != events.CheckoutSource || env.DetailType != events.CheckoutDetailType {
		t.Fatalf("unexpected envelope %q/%q", env.Source, env.DetailType)
	}

	var payload models.OrderPayload
	if err := json.Unmarshal(env.Detail, &payload); err != nil {
		t.Fatalf("detail is not a valid payload: %v", err)
	}
	if payload.UserName != "alice" {
		t.Fatalf("expected userName alice, got %q", payload.UserName)
	}
	// Line prices sum as-is; quantity deliberately plays no part.
	if payload.TotalPrice != 15 {
		t.Fatalf("expected totalPrice 15, got %v", payload.TotalPrice)
	}
	if payload.OrderDate != "2024-03-01T12:00:00Z" {
		t.Fatalf("orderDate should be stamped at publish time, got %q", payload.OrderDate)
	}
	if payload.FirstName != "Alice" || payload.Email != "alice@example.com" {
		t.Fatalf("request fields should be forwarded into the payload")
	}
	if len(payload.Items) != 2 {
		t.Fatalf("basket items should be carried whole, got %d", len(payload.Items))
	}

	if len(repo.deletes) != 1 || repo.deletes[0] != "alice" {
		t.Fatalf("basket should be deleted exactly once after publish, got %v", repo.deletes)
	}
}

func TestCheckout_BasketWinsOnCollision(t *testing.T) {
	repo := newFakeBasketRepo()
	repo.baskets["alice"] = aliceBasket()
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)

	// The request's totalPrice is recomputed and its colliding fields are
	// overwritten by the basket's.
	req := models.CheckoutRequest{UserName: "alice", TotalPrice: 9999}
	if err := svc.Checkout(context.Background(), req); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	var payload models.OrderPayload
	if err := json.Unmarshal(pub.envelopes[0].Detail, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.TotalPrice != 15 {
		t.Fatalf("basket-derived total must win, got %v", payload.TotalPrice)
	}
	if payload.UserName != "alice" {
		t.Fatalf("basket userName must win, got %q", payload.UserName)
	}
}

func TestCheckout_DeleteFailureIsNonFatal(t *testing.T) {
	repo := newFakeBasketRepo()
	repo.baskets["alice"] = aliceBasket()
	repo.delErr = fmt.Errorf("throttled")
	pub := &capturePublisher{}
	svc := newTestService(repo, pub)

	if err := svc.Checkout(context.Background(), models.CheckoutRequest{UserName: "alice"}); err != nil {
		t.Fatalf("delete failure must not fail checkout, got %v", err)
	}
	if len(pub.envelopes) != 1 {
		t.Fatalf("order event should still be in flight")
	}
	if len(repo.deletes) != 1 {
		t.Fatalf("expected exactly one delete attempt, got %d", len(repo.deletes))
	}
}
