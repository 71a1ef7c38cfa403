package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovaldezb/aws-microservices/services/basket/models"
	"github.com/ovaldezb/aws-microservices/services/basket/services"
	"github.com/ovaldezb/aws-microservices/services/events"
)

type memRepo struct {
	baskets map[string]*models.Basket
}

func (m *memRepo) Get(ctx context.Context, userName string) (*models.Basket, error) {
	return m.baskets[userName], nil
}

func (m *memRepo) GetAll(ctx context.Context) ([]models.Basket, error) {
	var out []models.Basket
	for _, b := range m.baskets {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memRepo) Save(ctx context.Context, basket *models.Basket) error {
	m.baskets[basket.UserName] = basket
	return nil
}

func (m *memRepo) Delete(ctx context.Context, userName string) error {
	delete(m.baskets, userName)
	return nil
}

type nopPublisher struct{ published int }

func (p *nopPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.published++
	return nil
}

func setupRouter(repo *memRepo, pub *nopPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	checkout := services.NewCheckoutService(repo, pub, nil, zap.NewNop(), "", "")
	controller := NewBasketController(repo, checkout, zap.NewNop())

	r := gin.New()
	r.GET("/basket/:userName", controller.GetBasket)
	r.POST("/basket", controller.CreateBasket)
	r.POST("/basket/checkout", controller.CheckoutBasket)
	return r
}

func TestCheckoutEndpoint_Accepted(t *testing.T) {
	repo := &memRepo{baskets: map[string]*models.Basket{
		"alice": {UserName: "alice", Items: []models.BasketItem{{ProductID: "p1", Price: 10}}},
	}}
	pub := &nopPublisher{}
	router := setupRouter(repo, pub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/basket/checkout", strings.NewReader(`{"userName":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if pub.published != 1 {
		t.Fatalf("expected one published event, got %d", pub.published)
	}
	if repo.baskets["alice"] != nil {
		t.Fatalf("basket should be gone after checkout")
	}
}

func TestCheckoutEndpoint_NoBasket(t *testing.T) {
	repo := &memRepo{baskets: map[string]*models.Basket{}}
	pub := &nopPublisher{}
	router := setupRouter(repo, pub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/basket/checkout", strings.NewReader(`{"userName":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if pub.published != 0 {
		t.Fatalf("nothing should be published without a basket")
	}
}

func TestCheckoutEndpoint_MissingUserName(t *testing.T) {
	repo := &memRepo{baskets: map[string]*models.Basket{}}
	router := setupRouter(repo, &nopPublisher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/basket/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateAndGetBasket(t *testing.T) {
	repo := &memRepo{baskets: map[string]*models.Basket{}}
	router := setupRouter(repo, &nopPublisher{})

	w := httptest.NewRecorder()
	body := `{"userName":"bob","items":[{"productId":"p9","quantity":1,"price":3.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/basket", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/basket/bob", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"p9"`) {
		t.Fatalf("stored basket should round-trip, got %s", w.Body.String())
	}
}
