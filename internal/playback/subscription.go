package playback

import "sync"

const eventBufferSize = 16

// Subscription delivers values of one stream to a single subscriber.
//
// Sends never block the publisher. When the buffer is full the oldest
// pending value is discarded, so a slow reader may skip intermediate values
// but always ends up with the most recent one.
type Subscription[T any] struct {
	C    <-chan T
	Done <-chan struct{}

	ch     chan T
	doneCh chan struct{}

	mu          sync.Mutex
	closed      bool
	unsubscribe func(*Subscription[T])
}

// newSubscription creates a subscription. unsubscribe, if set, is called
// once when the subscriber closes it.
func newSubscription[T any](unsubscribe func(*Subscription[T])) *Subscription[T] {
	s := &Subscription[T]{
		ch:          make(chan T, eventBufferSize),
		doneCh:      make(chan struct{}),
		unsubscribe: unsubscribe,
	}
	s.C = s.ch
	s.Done = s.doneCh
	return s
}

// Close detaches the subscription from its publisher and closes C and Done.
func (s *Subscription[T]) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe(s)
	}
	s.close()
}

// close signals subscribers to stop by closing doneCh, then C.
func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.doneCh)
	close(s.ch)
}

// send delivers v (non-blocking), evicting the oldest value if needed.
func (s *Subscription[T]) send(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		// Drop the oldest to make room
		select {
		case <-s.ch:
		default:
		}
	}
}
