package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCollectionReloaded = "collection.reloaded"
	EventTypeLoadFailed         = "collection.load_failed"
	EventTypeMutationApplied    = "mutation.applied"
	EventTypeMutationFailed     = "mutation.failed"
)

// CollectionReloadedEvent is published every time a list controller accepts
// a fresh copy of its collection.
type CollectionReloadedEvent struct {
	BaseEvent
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	Sequence uint64 `json:"sequence"`
}

func NewCollectionReloadedEvent(resource string, count int, seq uint64) *CollectionReloadedEvent {
	return &CollectionReloadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCollectionReloaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"resource": resource,
				"count":    count,
				"sequence": seq,
			},
		},
		Resource: resource,
		Count:    count,
		Sequence: seq,
	}
}

type LoadFailedEvent struct {
	BaseEvent
	Resource string `json:"resource"`
	Reason   string `json:"reason"`
}

func NewLoadFailedEvent(resource string, reason string) *LoadFailedEvent {
	return &LoadFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoadFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"resource": resource,
				"reason":   reason,
			},
		},
		Resource: resource,
		Reason:   reason,
	}
}

// MutationEvent reports the outcome of a create, update, delete or bulk call.
type MutationEvent struct {
	BaseEvent
	Resource  string `json:"resource"`
	Operation string `json:"operation"`
	Reason    string `json:"reason,omitempty"`
}

func NewMutationAppliedEvent(resource, operation string) *MutationEvent {
	return newMutationEvent(EventTypeMutationApplied, resource, operation, "")
}

func NewMutationFailedEvent(resource, operation, reason string) *MutationEvent {
	return newMutationEvent(EventTypeMutationFailed, resource, operation, reason)
}

func newMutationEvent(eventType, resource, operation, reason string) *MutationEvent {
	data := map[string]interface{}{
		"resource":  resource,
		"operation": operation,
	}
	if reason != "" {
		data["reason"] = reason
	}
	return &MutationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		Resource:  resource,
		Operation: operation,
		Reason:    reason,
	}
}
