package ringqueue

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue(t *testing.T) {
	tests := []struct {
		input []int
		want  []int
	}{
		{input: []int{1, 2}, want: []int{1, 2, 5}},
		{input: []int{1, 2, 3, 4}, want: []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			q, err := NewFromSlice(tt.input)
			require.NoError(t, err)
			require.NoError(t, q.Enqueue(5))
			assert.Equal(t, tt.want, q.ToSlice())
		})
	}
}

func TestEnqueueRange(t *testing.T) {
	q, err := NewFromSlice([]rune{'v', 'a', 'l'})
	require.NoError(t, err)
	require.NoError(t, q.EnqueueRange([]rune{'e', 'r', 'a'}))
	assert.Equal(t, []rune{'v', 'a', 'l', 'e', 'r', 'a'}, q.ToSlice())
	assert.Equal(t, 6, q.Len())
}

func TestEnqueueSeq(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.EnqueueSeq(slices.Values([]int{7, 8, 9, 10, 11})))
	assert.Equal(t, []int{7, 8, 9, 10, 11}, q.ToSlice())

	err := q.EnqueueSeq(nil)
	assert.ErrorIs(t, err, ErrNullArgument)

	err = q.EnqueueSeq(slices.Values([]int{}))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	anyQ := New[any]()
	err = anyQ.EnqueueSeq(slices.Values([]any{"a", "b", nil, "c"}))
	assert.ErrorIs(t, err, ErrNullArgument)
	assert.Equal(t, []any{"a", "b"}, anyQ.ToSlice())
}

func TestDequeue(t *testing.T) {
	tests := []struct {
		input []float64
		want  []float64
	}{
		{input: []float64{1, 2, 3, 4}, want: []float64{2, 3, 4}},
		{input: []float64{1}, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			q, err := NewFromSlice(tt.input)
			require.NoError(t, err)

			v, err := q.Dequeue()
			require.NoError(t, err)
			assert.Equal(t, tt.input[0], v)
			assert.Equal(t, tt.want, q.ToSlice())
		})
	}
}

func TestClear(t *testing.T) {
	q, err := NewFromSlice([]any{12, "sdsd", 'c'})
	require.NoError(t, err)

	q.Clear()
	assert.Empty(t, q.ToSlice())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 3, q.Cap(), "clear must not shrink the buffer")
	for i, slot := range q.buffer {
		assert.Nil(t, slot, "slot %d not cleared", i)
	}

	// Usable again after clearing.
	require.NoError(t, q.Enqueue("again"))
	assert.Equal(t, []any{"again"}, q.ToSlice())

	empty := New[int]()
	empty.Clear()
	assert.Equal(t, 0, empty.Len())
}

func TestContains(t *testing.T) {
	tests := []struct {
		input []int
		want  bool
	}{
		{input: []int{1, 2, 3, 4}, want: true},
		{input: []int{1, 2, 4}, want: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			q, err := NewFromSlice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Contains(q, 3))
		})
	}

	assert.False(t, Contains(New[int](), 0), "empty queue holds zero-valued slots")
}

func TestContainsFunc(t *testing.T) {
	q := New[[]int]()
	require.NoError(t, q.EnqueueRange([][]int{{1, 2}, {3}, {4, 5, 6}}))

	assert.True(t, q.ContainsFunc(func(v []int) bool { return slices.Equal(v, []int{3}) }))
	assert.False(t, q.ContainsFunc(func(v []int) bool { return len(v) == 2 && v[0] == 2 }))
	assert.False(t, New[[]int]().ContainsFunc(func([]int) bool { return true }))
}

func TestPeek(t *testing.T) {
	tests := []struct {
		input []rune
		want  rune
	}{
		{input: []rune("valera"), want: 'v'},
		{input: []rune("romashka"), want: 'r'},
	}
	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			q, err := NewFromSlice(tt.input)
			require.NoError(t, err)

			for range 3 {
				v, err := q.Peek()
				require.NoError(t, err)
				assert.Equal(t, tt.want, v)
			}
			assert.Equal(t, len(tt.input), q.Len())
		})
	}
}

func TestConstructors(t *testing.T) {
	q := New[int]()
	assert.Equal(t, DefaultCapacity, q.Cap())
	assert.Equal(t, 0, q.Len())

	q, err := NewWithCapacity[int](10)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Cap())

	for _, capacity := range []int{0, -1} {
		_, err := NewWithCapacity[int](capacity)
		assert.ErrorIs(t, err, ErrInvalidArgument, "capacity %d", capacity)
	}

	_, err = NewFromSlice[int](nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewFromSlice([]int{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewFromSlice([]any{1, nil})
	assert.ErrorIs(t, err, ErrNullArgument)

	q, err = NewFromSlice([]int{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Cap())
}

func TestErrors(t *testing.T) {
	t.Run("DequeueEmpty", func(t *testing.T) {
		q := New[int]()
		require.NoError(t, q.Enqueue(1))
		_, err := q.Dequeue()
		require.NoError(t, err)
		_, err = q.Dequeue()
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("PeekEmpty", func(t *testing.T) {
		q := New[int]()
		require.NoError(t, q.Enqueue(1))
		_, err := q.Dequeue()
		require.NoError(t, err)
		_, err = q.Peek()
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("EnqueueNil", func(t *testing.T) {
		q := New[any]()
		assert.ErrorIs(t, q.Enqueue(nil), ErrNullArgument)

		var p *int
		assert.ErrorIs(t, q.Enqueue(p), ErrNullArgument)

		ptrs := New[*int]()
		assert.ErrorIs(t, ptrs.Enqueue(nil), ErrNullArgument)
		assert.Equal(t, 0, ptrs.Len())
	})

	t.Run("EnqueueRangeNilCollection", func(t *testing.T) {
		q := New[any]()
		assert.ErrorIs(t, q.EnqueueRange(nil), ErrNullArgument)
	})

	t.Run("EnqueueRangeNilElement", func(t *testing.T) {
		q := New[any]()
		err := q.EnqueueRange([]any{"", nil})
		assert.ErrorIs(t, err, ErrNullArgument)
		// Elements before the nil one are not rolled back.
		assert.Equal(t, []any{""}, q.ToSlice())
	})

	t.Run("EnqueueRangeEmptyCollection", func(t *testing.T) {
		q := New[any]()
		assert.ErrorIs(t, q.EnqueueRange([]any{}), ErrInvalidArgument)
	})

	t.Run("ZeroValuesAreNotNil", func(t *testing.T) {
		q := New[any]()
		require.NoError(t, q.Enqueue(0))
		require.NoError(t, q.Enqueue(""))
		require.NoError(t, q.Enqueue(false))
		assert.Equal(t, 3, q.Len())
	})
}

func TestGrowth(t *testing.T) {
	q, err := NewWithCapacity[int](4)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, q.ToSlice())
	assert.Equal(t, 8, q.Cap())
	assert.Equal(t, 0, q.head)
	assert.Equal(t, 5, q.tail)

	q = New[int]()
	for i := range 1000 {
		require.NoError(t, q.Enqueue(i))
	}
	assert.Equal(t, 1024, q.Cap())
	for i := range 1000 {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	assert.Equal(t, 1024, q.Cap(), "capacity never shrinks")
}

func TestGrowthWrapped(t *testing.T) {
	q, err := NewFromSlice([]int{1, 2, 3, 4})
	require.NoError(t, err)

	for range 2 {
		_, err := q.Dequeue()
		require.NoError(t, err)
	}
	require.NoError(t, q.Enqueue(5))
	require.NoError(t, q.Enqueue(6))
	// Full and wrapped: head=2, tail=2.
	assert.Equal(t, 4, q.Cap())
	assert.Equal(t, 2, q.head)
	assert.Equal(t, 2, q.tail)

	require.NoError(t, q.Enqueue(7))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, q.ToSlice())
	assert.Equal(t, 8, q.Cap())
	assert.Equal(t, []int{3, 4, 5, 6, 7, 0, 0, 0}, q.buffer, "ring is linearized on growth")
}

// TestDequeueHeadAdvance covers a full buffer and a partially filled one.
// The head must wrap at the capacity, not at the element count.
func TestDequeueHeadAdvance(t *testing.T) {
	t.Run("CountEqualsCapacity", func(t *testing.T) {
		q, err := NewFromSlice([]int{1, 2, 3, 4})
		require.NoError(t, err)

		var got []int
		for i := 5; i <= 12; i++ {
			v, err := q.Dequeue()
			require.NoError(t, err)
			got = append(got, v)
			require.NoError(t, q.Enqueue(i))
			require.Equal(t, 4, q.Cap())
		}
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, got)
		assert.Equal(t, []int{9, 10, 11, 12}, q.ToSlice())
	})

	t.Run("CountLessThanCapacity", func(t *testing.T) {
		q, err := NewWithCapacity[int](8)
		require.NoError(t, err)
		require.NoError(t, q.EnqueueRange([]int{1, 2, 3}))

		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		v, err = q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		assert.Equal(t, 2, q.head)

		front, err := q.Peek()
		require.NoError(t, err)
		assert.Equal(t, 3, front)

		require.NoError(t, q.EnqueueRange([]int{4, 5}))
		assert.Equal(t, []int{3, 4, 5}, q.ToSlice())
	})

	t.Run("LastElement", func(t *testing.T) {
		q, err := NewWithCapacity[int](4)
		require.NoError(t, err)
		require.NoError(t, q.EnqueueRange([]int{1, 2}))
		for range 2 {
			_, err := q.Dequeue()
			require.NoError(t, err)
		}
		require.NoError(t, q.EnqueueRange([]int{3, 4, 5, 6, 7}))
		assert.Equal(t, []int{3, 4, 5, 6, 7}, q.ToSlice())
	})
}

func TestDequeueClearsSlot(t *testing.T) {
	a, b := 1, 2
	q := New[*int]()
	require.NoError(t, q.EnqueueRange([]*int{&a, &b}))

	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Same(t, &a, v)
	assert.Nil(t, q.buffer[0])
	assert.Same(t, &b, q.buffer[1])
}

func TestToSliceIsCopy(t *testing.T) {
	q, err := NewFromSlice([]int{1, 2, 3})
	require.NoError(t, err)

	out := q.ToSlice()
	out[0] = 100
	assert.Equal(t, []int{1, 2, 3}, q.ToSlice())

	assert.Equal(t, []int{}, New[int]().ToSlice())
}

func TestAll(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.EnqueueRange([]int{1, 2, 3}))

	assert.Equal(t, []int{1, 2, 3}, slices.Collect(q.All()))
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(q.All()), "sequence is restartable")

	var first []int
	for v := range q.All() {
		first = append(first, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, first)

	assert.Empty(t, slices.Collect(New[int]().All()))
}

func TestZeroValue(t *testing.T) {
	var q RingQueue[int]
	assert.Equal(t, 0, q.Cap())

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, q.ToSlice())
	q.Clear()

	for i := 1; i <= 6; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.Equal(t, 8, q.Cap(), "DefaultCapacity on first enqueue, then doubled")

	for i := 1; i <= 6; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())

	var ptrs RingQueue[*int]
	assert.ErrorIs(t, ptrs.Enqueue(nil), ErrNullArgument)
	assert.Equal(t, 0, ptrs.Len())
}

func TestNilabilityOf(t *testing.T) {
	assert.Equal(t, nilNever, nilabilityOf[int]())
	assert.Equal(t, nilNever, nilabilityOf[rune]())
	assert.Equal(t, nilNever, nilabilityOf[string]())
	assert.Equal(t, nilNever, nilabilityOf[struct{ p *int }]())
	assert.Equal(t, nilPossible, nilabilityOf[any]())
	assert.Equal(t, nilPossible, nilabilityOf[*int]())
	assert.Equal(t, nilPossible, nilabilityOf[[]int]())
	assert.Equal(t, nilPossible, nilabilityOf[map[string]int]())
	assert.Equal(t, nilPossible, nilabilityOf[func()]())

	q := New[int]()
	require.NoError(t, q.Enqueue(0))
	assert.Equal(t, nilNever, q.nilable, "decided once on first enqueue")
}

func TestIsNil(t *testing.T) {
	var (
		p  *int
		m  map[string]int
		ch chan int
		fn func()
		s  []int
	)
	assert.True(t, isNil[any](nil))
	assert.True(t, isNil(p))
	assert.True(t, isNil[any](m))
	assert.True(t, isNil[any](ch))
	assert.True(t, isNil[any](fn))
	assert.True(t, isNil[any](s))

	x := 0
	assert.False(t, isNil(&x))
	assert.False(t, isNil(0))
	assert.False(t, isNil(""))
	assert.False(t, isNil[any](struct{}{}))
}
