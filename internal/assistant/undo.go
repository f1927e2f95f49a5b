package assistant

import (
	"sync"
	"time"

	"binhoard-api/internal/common"
	"binhoard-api/internal/inventory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UndoStore keeps pre-delete bin snapshots in memory for a bounded window
// so a destructive action can be reversed. Snapshots carry the full record
// including the original identifier and short code, keeping printed QR
// labels valid after a restore.
type UndoStore struct {
	mu        sync.Mutex
	snapshots map[string]undoEntry
	ttl       time.Duration
	logger    *zap.Logger
	done      chan struct{}
}

type undoEntry struct {
	bin       inventory.Bin
	expiresAt time.Time
}

// NewUndoStore creates an undo store with a background janitor
func NewUndoStore(ttl, cleanupInterval time.Duration, logger *zap.Logger) *UndoStore {
	store := &UndoStore{
		snapshots: make(map[string]undoEntry),
		ttl:       ttl,
		logger:    logger,
		done:      make(chan struct{}),
	}

	go store.janitor(cleanupInterval)

	return store
}

// Put captures a pre-delete snapshot and returns its undo token
func (s *UndoStore) Put(bin inventory.Bin) string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[token] = undoEntry{
		bin:       bin,
		expiresAt: time.Now().Add(s.ttl),
	}

	s.logger.Debug("Captured undo snapshot",
		zap.String("binID", string(bin.ID)),
		zap.String("token", token))
	return token
}

// Take removes and returns the snapshot for a token. A token is single-use:
// once restored, the snapshot is gone.
func (s *UndoStore) Take(token string) (*inventory.Bin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.snapshots[token]
	if !exists {
		return nil, false
	}
	delete(s.snapshots, token)

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	bin := entry.bin
	return &bin, true
}

// Stop terminates the janitor
func (s *UndoStore) Stop() {
	close(s.done)
}

func (s *UndoStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expire()
		case <-s.done:
			return
		}
	}
}

func (s *UndoStore) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expired := 0
	for token, entry := range s.snapshots {
		if now.After(entry.expiresAt) {
			delete(s.snapshots, token)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug("Expired undo snapshots", zap.Int("count", expired))
	}
}

// UndoRef points a caller at the snapshot captured for one delete_bin action
type UndoRef struct {
	Token   string       `json:"token"`
	BinID   common.BinID `json:"bin_id"`
	BinName string       `json:"bin_name"`
}
