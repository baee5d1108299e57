package candishared

import "sync"

// minQueueLen is smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue represents a single instance of the queue data structure, safe for concurrent use.
type Queue[T any] struct {
	mu                sync.Mutex
	buf               []T
	head, tail, count int
}

// NewQueue constructs and returns a new Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		buf: make([]T, minQueueLen),
	}
}

// Len returns the number of elements currently stored in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Push puts an element on the end of the queue.
func (q *Queue[T]) Push(elem T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.buf) {
		q.resize()
	}

	q.buf[q.tail] = elem
	q.tail = (q.tail + 1) & (len(q.buf) - 1)
	q.count++
}

// Pop removes and returns the element from the front of the queue, false when queue is empty.
func (q *Queue[T]) Pop() (ret T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count <= 0 {
		return ret, false
	}
	var zero T
	ret = q.buf[q.head]
	q.buf[q.head] = zero
	// bitwise modulus
	q.head = (q.head + 1) & (len(q.buf) - 1)
	q.count--
	// Resize down if buffer 1/4 full.
	if len(q.buf) > minQueueLen && (q.count<<2) == len(q.buf) {
		q.resize()
	}
	return ret, true
}

// Peek returns the element at the head of the queue, false when queue is empty.
func (q *Queue[T]) Peek() (ret T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count <= 0 {
		return ret, false
	}
	return q.buf[q.head], true
}

// Drain returns all elements in FIFO order and empties the queue in one step.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]T, 0, q.count)
	for i := 0; i < q.count; i++ {
		items = append(items, q.buf[(q.head+i)&(len(q.buf)-1)])
	}
	q.buf = make([]T, minQueueLen)
	q.head, q.tail, q.count = 0, 0, 0
	return items
}

// resizes the queue to fit exactly twice its current contents
// this can result in shrinking if the queue is less than half-full
func (q *Queue[T]) resize() {
	newBuf := make([]T, q.count<<1)

	if q.tail > q.head {
		copy(newBuf, q.buf[q.head:q.tail])
	} else {
		n := copy(newBuf, q.buf[q.head:])
		copy(newBuf[n:], q.buf[:q.tail])
	}

	q.head = 0
	q.tail = q.count
	q.buf = newBuf
}
