package portfolio

import (
	"fmt"
	"sync"

	"github.com/solomio312/ManuX/internal/domain"
)

// Persister stores the position list between sessions. The order it gets is
// the order of record.
type Persister interface {
	LoadPositions() ([]domain.HeldPosition, error)
	SavePositions([]domain.HeldPosition) error
}

// Book is the ordered list of held positions. The order is display order
// chosen by the user, not a ranking; add, remove and move keep it as the
// persisted order of record. Mutations are serialized behind a single
// writer lock.
type Book struct {
	mu        sync.Mutex
	store     Persister
	positions []domain.HeldPosition
}

// OpenBook loads the persisted position list.
func OpenBook(store Persister) (*Book, error) {
	positions, err := store.LoadPositions()
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	return &Book{store: store, positions: positions}, nil
}

// Positions returns a copy of the list in display order.
func (b *Book) Positions() []domain.HeldPosition {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.HeldPosition, len(b.positions))
	copy(out, b.positions)
	return out
}

// Add appends a position at the end of the display order.
func (b *Book) Add(pos domain.HeldPosition) error {
	if pos.Ticker == "" {
		return fmt.Errorf("position needs a ticker")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.positions = append(b.positions, pos)
	return b.persistLocked()
}

// Remove deletes the position at the given index.
func (b *Book) Remove(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.positions) {
		return fmt.Errorf("position index %d out of range", index)
	}
	b.positions = append(b.positions[:index], b.positions[index+1:]...)
	return b.persistLocked()
}

// Move relocates the position at from so it ends up at index to, shifting
// the positions in between.
func (b *Book) Move(from, to int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if from < 0 || from >= len(b.positions) {
		return fmt.Errorf("position index %d out of range", from)
	}
	if to < 0 || to >= len(b.positions) {
		return fmt.Errorf("position index %d out of range", to)
	}
	if from == to {
		return nil
	}
	pos := b.positions[from]
	rest := append(b.positions[:from], b.positions[from+1:]...)
	b.positions = append(rest[:to], append([]domain.HeldPosition{pos}, rest[to:]...)...)
	return b.persistLocked()
}

func (b *Book) persistLocked() error {
	return b.store.SavePositions(b.positions)
}
