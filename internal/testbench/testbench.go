package testbench

import (
	"context"
	"time"

	"github.com/i5heu/GoRingQueue/internal/queue"
)

// Config describes one measurement: how many elements are enqueued before the
// queue is drained again, and how large the queue starts.
type Config struct {
	BurstSize       int
	InitialCapacity int
}

// Result is what one timed run measured.
type Result struct {
	Produced int64
	Consumed int64
	Failed   int64
	Elapsed  time.Duration
}

// NsPerOp returns the average time for one enqueue plus its dequeue.
func (r Result) NsPerOp() float64 {
	if r.Consumed == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Consumed)
}

// RunTimedTest fills q with cfg.BurstSize values and drains it again, over
// and over, until testDuration expires. The burst in flight when the
// deadline hits is still drained, so Produced and Consumed match unless the
// queue loses or rejects elements.
func RunTimedTest[T any, Q queue.QueueValidationInterface[T]](
	ctx context.Context,
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) Result {
	ctx, cancel := context.WithTimeout(ctx, testDuration)
	defer cancel()

	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}

	var res Result
	var msgIndex int
	start := time.Now()

	for ctx.Err() == nil {
		for i := 0; i < burst; i++ {
			if err := q.Enqueue(valueGenerator(msgIndex)); err != nil {
				res.Failed++
				continue
			}
			msgIndex++
			res.Produced++
		}
		for q.Len() > 0 {
			if _, err := q.Dequeue(); err != nil {
				res.Failed++
				break
			}
			res.Consumed++
		}
	}

	res.Elapsed = time.Since(start)
	return res
}
