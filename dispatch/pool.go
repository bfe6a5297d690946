package dispatch

import (
	"context"
	"sync"

	"github.com/zephyrtronium/selfbot/message"
)

// Pool runs dispatches on reusable worker goroutines so that the gateway's
// event loop never waits on a slow stage.
type Pool struct {
	d     *Dispatcher
	works chan chan func(context.Context)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool which keeps up to idle workers waiting for work.
// Bursts beyond that spawn additional short-lived workers.
func NewPool(d *Dispatcher, idle int) *Pool {
	return &Pool{
		d:     d,
		works: make(chan chan func(context.Context), idle),
	}
}

// Enqueue dispatches a message in the background.
// The result is false if the message was dropped because the pool is closed
// or ctx is done.
func (p *Pool) Enqueue(ctx context.Context, msg *message.Received) bool {
	// Adding to wg must not race with Close's wait.
	p.mu.Lock()
	if p.closed || ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()
	work := func(ctx context.Context) {
		defer p.wg.Done()
		p.d.Dispatch(ctx, msg)
	}
	var w chan func(context.Context)
	// Get a worker if one exists. Otherwise, spawn a new one.
	select {
	case w = <-p.works:
	default:
		// Unbuffered, so that work handed off is always run.
		w = make(chan func(context.Context))
		go worker(ctx, p.works, w)
	}
	// Send it work.
	select {
	case <-ctx.Done():
		p.wg.Done()
		return false
	case w <- work:
		return true
	}
}

// Wait waits for all enqueued dispatches to finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close stops accepting messages and waits for enqueued dispatches to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

// worker runs works for a while. The provided context is passed to each work.
func worker(ctx context.Context, works chan chan func(context.Context), ch chan func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case work := <-ch:
			work(ctx)
			// Replace ourselves in the pool if it needs additional capacity.
			// Otherwise, we're done.
			select {
			case works <- ch:
			default:
				return
			}
		}
	}
}
