package services

import (
	"sort"
	"sync"
	"time"

	model "task-tracker.com/task-tracker/internal/models"
)

type DeletionKind string

const (
	DeletionProject DeletionKind = "project"
	DeletionTask    DeletionKind = "task"
)

// PendingDeletion is an item already removed from the live state and still recoverable
// until its grace period ends.
type PendingDeletion struct {
	Kind      DeletionKind   `json:"kind"`
	Project   *model.Project `json:"project,omitempty"`
	Task      *model.Task    `json:"task,omitempty"`
	ProjectID string         `json:"projectId"`
	Index     int            `json:"index"`
	DeletedAt time.Time      `json:"deletedAt"`
}

type Timer interface {
	Stop() bool
}

type AfterFunc func(d time.Duration, f func()) Timer

func SystemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type undoSlot struct {
	deletion PendingDeletion
	timer    Timer
	seq      uint64
}

// UndoCoordinator keeps one pending deletion per item kind. A slot is claimed exactly
// once, either by Take (undo) or by its timer (commit); sequence numbers make a late
// timer a no-op.
type UndoCoordinator struct {
	mu       sync.Mutex
	grace    time.Duration
	after    AfterFunc
	onExpire func(PendingDeletion)
	slots    map[DeletionKind]*undoSlot
	seq      uint64
}

func NewUndoCoordinator(grace time.Duration, after AfterFunc, onExpire func(PendingDeletion)) *UndoCoordinator {
	if after == nil {
		after = SystemAfterFunc
	}
	return &UndoCoordinator{
		grace:    grace,
		after:    after,
		onExpire: onExpire,
		slots:    make(map[DeletionKind]*undoSlot),
	}
}

// Hold parks d and arms its grace timer. If a deletion of the same kind was still
// pending it is returned, and the caller must commit it immediately.
func (c *UndoCoordinator) Hold(d PendingDeletion) *PendingDeletion {
	c.mu.Lock()
	defer c.mu.Unlock()

	var superseded *PendingDeletion
	if prev, ok := c.slots[d.Kind]; ok {
		prev.timer.Stop()
		prevDeletion := prev.deletion
		superseded = &prevDeletion
	}

	c.seq++
	seq := c.seq
	kind := d.Kind
	c.slots[kind] = &undoSlot{
		deletion: d,
		seq:      seq,
		timer:    c.after(c.grace, func() { c.expire(kind, seq) }),
	}
	return superseded
}

func (c *UndoCoordinator) expire(kind DeletionKind, seq uint64) {
	c.mu.Lock()
	slot, ok := c.slots[kind]
	if !ok || slot.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.slots, kind)
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire(slot.deletion)
	}
}

func (c *UndoCoordinator) latestLocked() (*undoSlot, bool) {
	var latest *undoSlot
	for _, slot := range c.slots {
		if latest == nil || slot.seq > latest.seq {
			latest = slot
		}
	}
	return latest, latest != nil
}

// Take claims the most recent pending deletion for undo and cancels its timer.
func (c *UndoCoordinator) Take() (PendingDeletion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.latestLocked()
	if !ok {
		return PendingDeletion{}, false
	}
	slot.timer.Stop()
	delete(c.slots, slot.deletion.Kind)
	return slot.deletion, true
}

// Latest reports the most recent pending deletion without claiming it.
func (c *UndoCoordinator) Latest() (PendingDeletion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.latestLocked()
	if !ok {
		return PendingDeletion{}, false
	}
	return slot.deletion, true
}

// Pending lists every pending deletion, oldest first.
func (c *UndoCoordinator) Pending() []PendingDeletion {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.orderedLocked()
}

func (c *UndoCoordinator) orderedLocked() []PendingDeletion {
	slots := make([]*undoSlot, 0, len(c.slots))
	for _, slot := range c.slots {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].seq < slots[j].seq })
	out := make([]PendingDeletion, len(slots))
	for i, slot := range slots {
		out[i] = slot.deletion
	}
	return out
}

// Drain stops every timer and hands back all pending deletions, oldest first, for the
// caller to commit.
func (c *UndoCoordinator) Drain() []PendingDeletion {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.orderedLocked()
	for kind, slot := range c.slots {
		slot.timer.Stop()
		delete(c.slots, kind)
	}
	return out
}
