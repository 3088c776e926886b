package cart

import (
	"sync"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
)

// Listener receives a copy of the cart lines after every mutation.
type Listener func(lines []domain.CartLine)

// Store holds what the shopper is about to buy. Lines keep insertion order and
// there is at most one line per product id. The zero value is not usable; use NewStore.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	lines     []domain.CartLine
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// AddItem increments the line for product.ID or appends a new line with quantity 1.
// Stock is not consulted.
func (s *Store) AddItem(product domain.Product) {
	s.mu.Lock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, domain.CartLine{Product: product, Quantity: 1})
	}
	s.notifyLocked()
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.lines[i].Quantity = quantity
	}
	s.notifyLocked()
}

func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.removeAt(i)
	s.notifyLocked()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.notifyLocked()
}

// Restore replaces the contents with a persisted snapshot. Duplicate product ids
// are merged and non-positive quantities dropped. Listeners are not notified.
func (s *Store) Restore(lines []domain.CartLine) {
	restored := make([]domain.CartLine, 0, len(lines))
	seen := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := seen[l.Product.ID]; ok {
			restored[i].Quantity += l.Quantity
			continue
		}
		seen[l.Product.ID] = len(restored)
		restored = append(restored, l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = restored
}

// Total is recomputed from the current lines on every call.
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SumLines(s.lines)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// State returns lines and total from a single read.
func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartState{Lines: s.copyLocked(), Total: domain.SumLines(s.lines)}
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Count is the sum of all quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Subscribe registers fn for mutation notifications and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

func (s *Store) copyLocked() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// notifyLocked hands over from mu to notifyMu so listeners may read the store
// while notifications still arrive in mutation order. Listeners must not mutate
// the store.
func (s *Store) notifyLocked() {
	snapshot := s.copyLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
