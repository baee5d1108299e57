package candishared

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := NewQueue[string]()
	q.Push("q")
	q.Push("a")

	assert.Equal(t, 2, q.Len())

	peek, _ := q.Peek()
	assert.Equal(t, "q", peek)
	pop, _ := q.Pop()
	assert.Equal(t, "q", pop)
	peek, _ = q.Peek()
	assert.Equal(t, "a", peek)

	q.Pop()
	_, ok := q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 40; i++ {
		q.Push(i)
	}
	for i := 0; i < 5; i++ {
		q.Pop()
	}

	items := q.Drain()
	assert.Len(t, items, 35)
	assert.Equal(t, 5, items[0])
	assert.Equal(t, 39, items[34])
	assert.Equal(t, 0, q.Len())

	q.Push(100)
	items = q.Drain()
	assert.Equal(t, []int{100}, items)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := NewQueue[string]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Push(strconv.Itoa(i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 100)
}
