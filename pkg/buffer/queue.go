package buffer

import "sync/atomic"

// Queue is a fixed-capacity lock-free FIFO queue. Any number of goroutines
// may push and pop concurrently; neither side ever blocks or allocates after
// construction.
//
// Each slot carries a sequence number. A producer may claim slot i only when
// its sequence equals the enqueue position, and a consumer may take it only
// when the sequence equals position+1. The slot value is published by the
// sequence store, so readers never observe a half-written element.
type Queue[T any] struct {
	mask  uint64
	slots []queueSlot[T]

	_    [56]byte
	head atomic.Uint64 // next enqueue position
	_    [56]byte
	tail atomic.Uint64 // next dequeue position
	_    [56]byte
}

type queueSlot[T any] struct {
	seq atomic.Uint64
	val T
}

// NewQueue creates a Queue holding at least size elements. The capacity is
// rounded up to the next power of two. It panics if size is not positive.
func NewQueue[T any](size int) *Queue[T] {
	if size <= 0 {
		panic("buffer: queue size must be positive")
	}
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	q := &Queue[T]{
		mask:  n - 1,
		slots: make([]queueSlot[T], n),
	}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// TryPush appends v to the queue. It returns false without waiting if the
// queue is full.
func (q *Queue[T]) TryPush(v T) bool {
	pos := q.head.Load()
	for {
		s := &q.slots[pos&q.mask]
		seq := s.seq.Load()
		switch diff := int64(seq - pos); {
		case diff == 0:
			if q.head.CompareAndSwap(pos, pos+1) {
				s.val = v
				s.seq.Store(pos + 1)
				return true
			}
			pos = q.head.Load()
		case diff < 0:
			return false
		default:
			pos = q.head.Load()
		}
	}
}

// TryPop removes the oldest element. It returns false without waiting if no
// element is ready. An element whose producer has claimed a slot but not yet
// published it is not ready.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	pos := q.tail.Load()
	for {
		s := &q.slots[pos&q.mask]
		seq := s.seq.Load()
		switch diff := int64(seq - (pos + 1)); {
		case diff == 0:
			if q.tail.CompareAndSwap(pos, pos+1) {
				v := s.val
				s.val = zero
				s.seq.Store(pos + q.mask + 1)
				return v, true
			}
			pos = q.tail.Load()
		case diff < 0:
			return zero, false
		default:
			pos = q.tail.Load()
		}
	}
}

// Len returns an estimate of the number of queued elements.
func (q *Queue[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if head <= tail {
		return 0
	}
	return int(head - tail)
}

// Cap returns the capacity of the queue.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}
