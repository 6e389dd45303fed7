package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	pkgerrors "github.com/lanort/pedidos/pkg/errors"
	"github.com/lanort/pedidos/pkg/storage"
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// Sequence hands out client-side order numbers from a persisted counter. Numbers are
// not coordinated across devices; two clients can issue the same number.
type Sequence struct {
	mu sync.Mutex
	kv storage.KeyValue
}

func NewSequence(kv storage.KeyValue) *Sequence {
	return &Sequence{kv: kv}
}

// Next increments the counter, persists it and returns it zero-padded to 4 digits.
func (s *Sequence) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.current(ctx)
	if err != nil {
		return "", err
	}
	next := current + 1
	if err := s.kv.Set(ctx, storage.OrderCounterKey, strconv.Itoa(next)); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order counter")
	}
	return fmt.Sprintf("%04d", next), nil
}

// Current returns the last issued number; a missing or invalid value counts as 0.
func (s *Sequence) Current(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *Sequence) current(ctx context.Context) (int, error) {
	raw, err := s.kv.Get(ctx, storage.OrderCounterKey)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order counter")
	}
	digits := leadingDigits.FindString(strings.TrimSpace(raw))
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
