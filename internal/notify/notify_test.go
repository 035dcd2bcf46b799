package notify

import (
	"context"
	"testing"
)

// The publisher is optional infrastructure: a nil handle must behave as a
// silent no-op so the write path needs no guards.
func TestNilPublisherIsNoOp(t *testing.T) {
	var p *Publisher

	if err := p.Publish(context.Background(), LedgerEvent{Kind: KindAppend, Person: "A"}); err != nil {
		t.Fatalf("nil publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
