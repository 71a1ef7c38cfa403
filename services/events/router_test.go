package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

type captureDestination struct {
	name      string
	delivered [][]byte
	err       error
}

func (d *captureDestination) Name() string { return d.name }

func (d *captureDestination) Deliver(ctx context.Context, detail []byte) error {
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, detail)
	return nil
}

func checkoutEnvelope(detail string) Envelope {
	return Envelope{
		Source:     CheckoutSource,
		DetailType: CheckoutDetailType,
		Detail:     json.RawMessage(detail),
	}
}

func TestRouter_MatchForwardsVerbatim(t *testing.T) {
	dest := &captureDestination{name: "queue"}
	router := NewRouter(zap.NewNop(), nil, Rule{
		Source:       CheckoutSource,
		DetailType:   CheckoutDetailType,
		Destinations: []Destination{dest},
	})

	detail := `{"userName":"alice"}`
	if err := router.Publish(context.Background(), checkoutEnvelope(detail)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(dest.delivered) != 1 || string(dest.delivered[0]) != detail {
		t.Fatalf("detail must be forwarded verbatim, got %v", dest.delivered)
	}
}

func TestRouter_NoMatchDropsSilentlyForPublisher(t *testing.T) {
	dest := &captureDestination{name: "queue"}
	router := NewRouter(zap.NewNop(), nil, Rule{
		Source:       CheckoutSource,
		DetailType:   CheckoutDetailType,
		Destinations: []Destination{dest},
	})

	env := Envelope{Source: "com.other.source", DetailType: CheckoutDetailType, Detail: json.RawMessage(`{}`)}
	if err := router.Publish(context.Background(), env); err != nil {
		t.Fatalf("a dropped envelope is still accepted, got %v", err)
	}
	if len(dest.delivered) != 0 {
		t.Fatalf("unmatched envelope must not reach any destination")
	}
}

func TestRouter_MatchIsCaseSensitiveAndExact(t *testing.T) {
	dest := &captureDestination{name: "queue"}
	router := NewRouter(zap.NewNop(), nil, Rule{
		Source:       CheckoutSource,
		DetailType:   CheckoutDetailType,
		Destinations: []Destination{dest},
	})

	cases := []Envelope{
		{Source: CheckoutSource, DetailType: "checkoutbasket", Detail: json.RawMessage(`{}`)},
		{Source: "COM.SWN.BASKET.CHECKOUTBASKET", DetailType: CheckoutDetailType, Detail: json.RawMessage(`{}`)},
		{Source: CheckoutSource + "x", DetailType: CheckoutDetailType, Detail: json.RawMessage(`{}`)},
	}
	for _, env := range cases {
		if err := router.Publish(context.Background(), env); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}
	if len(dest.delivered) != 0 {
		t.Fatalf("both fields must match exactly, delivered %d", len(dest.delivered))
	}
}

func TestRouter_FanOutToAllDestinations(t *testing.T) {
	a := &captureDestination{name: "a"}
	b := &captureDestination{name: "b"}
	router := NewRouter(zap.NewNop(), nil, Rule{
		Source:       CheckoutSource,
		DetailType:   CheckoutDetailType,
		Destinations: []Destination{a, b},
	})

	if err := router.Publish(context.Background(), checkoutEnvelope(`{"n":1}`)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(a.delivered) != 1 || len(b.delivered) != 1 {
		t.Fatalf("matched envelope must reach every destination of the rule")
	}
}

func TestRouter_DestinationFailureSurfaces(t *testing.T) {
	dest := &captureDestination{name: "queue", err: fmt.Errorf("queue full")}
	router := NewRouter(zap.NewNop(), nil, Rule{
		Source:       CheckoutSource,
		DetailType:   CheckoutDetailType,
		Destinations: []Destination{dest},
	})

	if err := router.Publish(context.Background(), checkoutEnvelope(`{}`)); err == nil {
		t.Fatalf("a refused delivery must surface to the publisher")
	}
}
