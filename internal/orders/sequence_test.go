package orders

import (
	"context"
	"testing"

	"github.com/lanort/pedidos/pkg/storage"
)

func TestSequenceContinuesFromPersistedCounter(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	if err := kv.Set(ctx, storage.OrderCounterKey, "7"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	seq := NewSequence(kv)

	first, err := seq.Next(ctx)
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	second, err := seq.Next(ctx)
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if first != "0008" || second != "0009" {
		t.Fatalf("expected 0008 then 0009, got %s then %s", first, second)
	}

	stored, err := kv.Get(ctx, storage.OrderCounterKey)
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if stored != "9" {
		t.Fatalf("expected stored counter 9, got %q", stored)
	}
}

func TestSequenceStartsAtOneWithoutUsableState(t *testing.T) {
	ctx := context.Background()
	for name, stored := range map[string]*string{"missing": nil, "garbage": ptr("abc"), "blank": ptr("")} {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			if stored != nil {
				if err := kv.Set(ctx, storage.OrderCounterKey, *stored); err != nil {
					t.Fatalf("seed counter: %v", err)
				}
			}
			got, err := NewSequence(kv).Next(ctx)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got != "0001" {
				t.Fatalf("expected 0001, got %s", got)
			}
		})
	}
}

func TestSequenceBeyondFourDigits(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	if err := kv.Set(ctx, storage.OrderCounterKey, "9999"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	got, err := NewSequence(kv).Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "10000" {
		t.Fatalf("expected 10000, got %s", got)
	}

	current, err := NewSequence(kv).Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current != 10000 {
		t.Fatalf("expected current 10000, got %d", current)
	}
}

func ptr(s string) *string {
	return &s
}
