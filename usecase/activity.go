package usecase

import (
	"sync"
	"time"

	"github.com/AzielCF/az-reply/config"
	domainActivity "github.com/AzielCF/az-reply/domains/activity"
	"github.com/google/uuid"
)

type activityService struct {
	mu         sync.Mutex
	entries    []domainActivity.Entry
	seq        int64
	maxEntries int

	// OnAppend, when set, receives every entry after it is committed to the
	// log. Used to push live updates to the dashboard websocket.
	onAppend func(domainActivity.Entry)
}

func NewActivityService(onAppend func(domainActivity.Entry)) domainActivity.IActivityUsecase {
	maxEntries := config.ActivityLogMaxEntries
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &activityService{
		maxEntries: maxEntries,
		onAppend:   onAppend,
	}
}

func (s *activityService) Append(kind domainActivity.EntryKind, text string) domainActivity.Entry {
	s.mu.Lock()
	s.seq++
	entry := domainActivity.Entry{
		ID:        uuid.NewString(),
		Seq:       s.seq,
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	s.entries = append(s.entries, entry)

	// Retention eviction only ever drops the oldest entries; the core never
	// mutates or reorders what is already logged.
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}
	s.mu.Unlock()

	if s.onAppend != nil {
		s.onAppend(entry)
	}
	return entry
}

func (s *activityService) List() []domainActivity.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]domainActivity.Entry, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}

func (s *activityService) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}
