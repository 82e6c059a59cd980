package events

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/groblegark/ticklist/internal/model"
	"github.com/groblegark/ticklist/internal/observe"
)

// capturePublisher records published events in order.
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *capturePublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newItemRecord(t *testing.T, reg *observe.Registry, id string) *observe.Record {
	t.Helper()
	rec, err := observe.FromStruct(reg, model.Item{ItemID: id}, id)
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	return rec
}

func TestBridge_ForwardsPropertyChanges(t *testing.T) {
	reg := observe.NewRegistry()
	rec := newItemRecord(t, reg, "td-42")
	pub := &capturePublisher{}

	bridge, err := NewBridge(context.Background(), reg, rec, pub)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	defer bridge.Close()

	if err := rec.Set("body", "walk the dog"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := rec.Append("tags", "pets"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}
	for _, topic := range pub.topics {
		if topic != TopicItemProperty {
			t.Errorf("topic = %q, want %q", topic, TopicItemProperty)
		}
	}

	first := pub.events[0].(PropertyChanged)
	if first.ItemID != "td-42" || first.Property != "body" || first.Kind != observe.Setting {
		t.Errorf("first = %+v", first)
	}
	if first.Old != "" || first.New != "walk the dog" {
		t.Errorf("first payload = (%v -> %v)", first.Old, first.New)
	}

	second := pub.events[1].(PropertyChanged)
	if second.Property != "tags" || second.Kind != observe.Insertion {
		t.Errorf("second = %+v", second)
	}
	if second.New != "pets" || !reflect.DeepEqual(second.Indices, []int{0}) {
		t.Errorf("second payload = %+v, want pets at [0]", second)
	}
}

func TestBridge_CloseStopsForwarding(t *testing.T) {
	reg := observe.NewRegistry()
	rec := newItemRecord(t, reg, "td-1")
	pub := &capturePublisher{}

	bridge, err := NewBridge(context.Background(), reg, rec, pub)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}

	bridge.Close()
	bridge.Close() // idempotent

	if err := rec.Set("body", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events after Close, want 0", len(pub.events))
	}
}

func TestBridge_RecordDestroyStopsForwarding(t *testing.T) {
	reg := observe.NewRegistry()
	rec := newItemRecord(t, reg, "td-1")
	pub := &capturePublisher{}

	if _, err := NewBridge(context.Background(), reg, rec, pub); err != nil {
		t.Fatalf("NewBridge: %v", err)
	}

	rec.Destroy()
	if got := reg.SubscriptionCount(rec); got != 0 {
		t.Errorf("SubscriptionCount after destroy = %d, want 0", got)
	}
}
