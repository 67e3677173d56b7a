package workerpool

import (
	"container/heap"
	"time"
)

// delayedItem is a future waiting in the delay queue until it is due.
type delayedItem struct {
	future *Future
	due    time.Time
	seq    uint64 // FIFO among items due at the same instant
}

// delayQueue implements heap.Interface ordered by due time.
type delayQueue []*delayedItem

// Len is the number of elements in the collection.
func (dq delayQueue) Len() int { return len(dq) }

// Less orders by due time, then by insertion order.
func (dq delayQueue) Less(i, j int) bool {
	if dq[i].due.Equal(dq[j].due) {
		return dq[i].seq < dq[j].seq
	}
	return dq[i].due.Before(dq[j].due)
}

// Swap swaps the elements with indexes i and j.
func (dq delayQueue) Swap(i, j int) { dq[i], dq[j] = dq[j], dq[i] }

// Push adds x as element Len().
func (dq *delayQueue) Push(x any) {
	*dq = append(*dq, x.(*delayedItem))
}

// Pop removes and returns element Len() - 1.
func (dq *delayQueue) Pop() any {
	old := *dq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	*dq = old[0 : n-1]
	return item
}

// Peek returns the next item to become due without removing it.
// Returns nil if the queue is empty.
func (dq delayQueue) Peek() *delayedItem {
	if len(dq) == 0 {
		return nil
	}
	return dq[0]
}

// popDue removes and returns every item due at or before now.
func (dq *delayQueue) popDue(now time.Time) []*Future {
	var due []*Future
	for dq.Len() > 0 && !dq.Peek().due.After(now) {
		due = append(due, heap.Pop(dq).(*delayedItem).future)
	}
	return due
}
