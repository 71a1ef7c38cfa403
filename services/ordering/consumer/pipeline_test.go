package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	basketmodels "github.com/ovaldezb/aws-microservices/services/basket/models"
	basketsvc "github.com/ovaldezb/aws-microservices/services/basket/services"
	"github.com/ovaldezb/aws-microservices/services/events"
)

// memBasketRepo is a minimal in-memory basket store for the pipeline test.
type memBasketRepo struct {
	baskets map[string]*basketmodels.Basket
}

func (m *memBasketRepo) Get(ctx context.Context, userName string) (*basketmodels.Basket, error) {
	return m.baskets[userName], nil
}

func (m *memBasketRepo) GetAll(ctx context.Context) ([]basketmodels.Basket, error) {
	var out []basketmodels.Basket
	for _, b := range m.baskets {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBasketRepo) Save(ctx context.Context, basket *basketmodels.Basket) error {
	m.baskets[basket.UserName] = basket
	return nil
}

func (m *memBasketRepo) Delete(ctx context.Context, userName string) error {
	delete(m.baskets, userName)
	return nil
}

// memQueueDestination buffers routed details so the consumer side of the
// test can drain them as queue messages.
type memQueueDestination struct {
	bodies []string
}

func (d *memQueueDestination) Name() string { return "order-queue" }

func (d *memQueueDestination) Deliver(ctx context.Context, detail []byte) error {
	d.bodies = append(d.bodies, string(detail))
	return nil
}

// TestCheckoutToOrderPipeline drives the whole path: basket → checkout →
// router → queue → consumer → order store.
func TestCheckoutToOrderPipeline(t *testing.T) {
	ctx := context.Background()

	basketRepo := &memBasketRepo{baskets: map[string]*basketmodels.Basket{
		"alice": {
			UserName: "alice",
			Items: []basketmodels.BasketItem{
				{ProductID: "p1", Price: 10},
				{ProductID: "p2", Price: 5},
			},
		},
	}}

	queueDest := &memQueueDestination{}
	router := events.NewRouter(zap.NewNop(), nil, events.Rule{
		Source:       events.CheckoutSource,
		DetailType:   events.CheckoutDetailType,
		Destinations: []events.Destination{queueDest},
	})

	checkout := basketsvc.NewCheckoutService(basketRepo, router, nil, zap.NewNop(), "", "")
	require.NoError(t, checkout.Checkout(ctx, basketmodels.CheckoutRequest{UserName: "alice"}))

	// The basket is gone and the order payload sits in the queue.
	gone, err := basketRepo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, gone, "basket must be deleted once the publish is accepted")
	require.Len(t, queueDest.bodies, 1)

	q := &fakeQueue{}
	dlq := &fakeDLQ{}
	orderRepo := newFakeOrderRepo()
	c := newTestConsumer(q, dlq, orderRepo)

	out := c.processMessage(ctx, awspkg.Message{
		ID:            "m1",
		Body:          queueDest.bodies[0],
		ReceiptHandle: "rh-m1",
		ReceiveCount:  1,
	})
	assert.Equal(t, acked, out)

	orders, err := orderRepo.QueryByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", orders[0].UserName)
	assert.Equal(t, 15.0, orders[0].TotalPrice)
	assert.NotEmpty(t, orders[0].OrderDate)
	_, perr := time.Parse(time.RFC3339, orders[0].OrderDate)
	assert.NoError(t, perr, "order key timestamp must be the payload's RFC3339 stamp")
}
