package activity

import "time"

type EntryKind string

const (
	KindIncoming EntryKind = "incoming"
	KindOutgoing EntryKind = "outgoing"
	KindInfo     EntryKind = "info"
)

// Entry is one line of the dashboard message log. Entries are append-only
// and ordered by Seq.
type Entry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type IActivityUsecase interface {
	Append(kind EntryKind, text string) Entry
	List() []Entry
	Clear()
}
