package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/ovaldezb/aws-microservices/pkg/aws"
	"github.com/ovaldezb/aws-microservices/pkg/errs"
	"github.com/ovaldezb/aws-microservices/services/basket/models"
	"github.com/ovaldezb/aws-microservices/services/basket/repository"
	"github.com/ovaldezb/aws-microservices/services/events"
)

// CheckoutService converts a basket into an in-flight order event. The order
// of side effects is load basket → publish → delete basket, and the delete
// only ever runs after a successful publish: a lingering basket is
// recoverable, a lost order is not.
type CheckoutService struct {
	repo       repository.BasketRepo
	publisher  events.Publisher
	metrics    *awspkg.MetricsClient
	log        *zap.Logger
	source     string
	detailType string
	now        func() time.Time
}

func NewCheckoutService(repo repository.BasketRepo, publisher events.Publisher, metrics *awspkg.MetricsClient, log *zap.Logger, source, detailType string) *CheckoutService {
	if source == "" {
		source = events.CheckoutSource
	}
	if detailType == "" {
		detailType = events.CheckoutDetailType
	}
	return &CheckoutService{
		repo:       repo,
		publisher:  publisher,
		metrics:    metrics,
		log:        log,
		source:     source,
		detailType: detailType,
		now:        time.Now,
	}
}

// Checkout validates the request, publishes the order payload and, only once
// the publish is accepted, deletes the basket. It makes exactly one publish
// attempt and at most one delete attempt per invocation.
//
// A nil return means the order is in flight, not persisted: delivery past
// the event channel is fire-and-forget.
func (s *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) error {
	if req.UserName == "" {
		return errs.Wrap(errs.ErrValidation, fmt.Errorf("userName is required"))
	}

	basket, err := s.repo.Get(ctx, req.UserName)
	if err != nil {
		return errs.Wrap(errs.ErrInternalServer, err)
	}
	if basket == nil || len(basket.Items) == 0 {
		return errs.Wrap(errs.ErrNotFound, fmt.Errorf("no basket with items for user %s", req.UserName))
	}

	orderDate := s.now().UTC().Format(time.RFC3339)
	payload := models.BuildOrderPayload(req, basket, orderDate, uuid.NewString())

	detail, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(errs.ErrInternalServer, fmt.Errorf("marshal order payload: %w", err))
	}

	env := events.Envelope{
		ID:         payload.EventID,
		Source:     s.source,
		DetailType: s.detailType,
		Detail:     detail,
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		return errs.Wrap(errs.ErrPublish, err)
	}

	s.log.Info("checkout event published",
		zap.String("user_name", payload.UserName),
		zap.String("order_date", payload.OrderDate),
		zap.String("event_id", payload.EventID),
		zap.Float64("total_price", payload.TotalPrice),
	)
	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricCheckoutAccepted, map[string]string{"Service": "basket-service"})
	}

	// Delete failure is deliberately non-fatal: the order is already in
	// flight, so the stale basket is logged for cleanup and the caller
	// still sees a successful checkout.
	if err := s.repo.Delete(ctx, req.UserName); err != nil {
		delErr := errs.Wrap(errs.ErrDeletion, err)
		s.log.Error("basket deletion failed after publish",
			zap.String("user_name", req.UserName),
			zap.Error(delErr),
		)
	}

	return nil
}
