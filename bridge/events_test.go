// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import "testing"

func TestDepositBusDeliversToSubscriber(t *testing.T) {
	bus := NewDepositBus(4)
	sub := bus.Subscribe()

	bus.publish(DepositRecord{Nonce: 1})

	select {
	case record := <-sub.C():
		if record.Nonce != 1 {
			t.Fatalf("unexpected record: %+v", record)
		}
	default:
		t.Fatal("expected record to be delivered")
	}
}

func TestDepositBusLateSubscriberMissesHistory(t *testing.T) {
	bus := NewDepositBus(4)
	bus.publish(DepositRecord{Nonce: 1})

	sub := bus.Subscribe()
	select {
	case record := <-sub.C():
		t.Fatalf("expected no historical record, got %+v", record)
	default:
	}
}

func TestDepositBusLaggingSubscriberDoesNotBlockPublisher(t *testing.T) {
	bus := NewDepositBus(1)
	sub := bus.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.publish(DepositRecord{Nonce: uint64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-sub.C():
		// draining one record is also an acceptable interleaving; either way
		// publish must not deadlock.
	}

	if sub.Lagged() == 0 && len(sub.ch) == 0 {
		t.Skip("timing-dependent: publisher may have finished before any lag accrued")
	}
}

func TestDepositBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewDepositBus(4)
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	bus.publish(DepositRecord{Nonce: 1})

	select {
	case record := <-sub.C():
		t.Fatalf("expected no delivery after unsubscribe, got %+v", record)
	default:
	}
}
