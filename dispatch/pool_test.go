package dispatch_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/selfbot/dispatch"
)

func TestPool(t *testing.T) {
	f := newFixture()
	p := dispatch.NewPool(f.d, 4)
	ctx := context.Background()
	const n = 200
	for i := range n {
		p.Enqueue(ctx, msg(fmt.Sprintf("!cmd add k%d v%d", i, i)))
	}
	p.Wait()
	logs, sends := 0, 0
	for _, ev := range f.tr.events() {
		switch {
		case strings.HasPrefix(ev, "log:"):
			logs++
		case strings.HasPrefix(ev, "send:Added command "):
			sends++
		default:
			t.Errorf("unexpected effect %q", ev)
		}
	}
	if logs != n || sends != n {
		t.Errorf("wrong effect counts: want %d logs and sends, got %d and %d", n, logs, sends)
	}
	if got, _ := f.d.Commands.Len(ctx); got != n {
		t.Errorf("wrong number of commands: want %d, got %d", n, got)
	}
}

func TestPoolCanceled(t *testing.T) {
	f := newFixture()
	p := dispatch.NewPool(f.d, 1)
	ctx, cancel := context.WithCancel(context.Background())
	p.Enqueue(ctx, msg("first"))
	p.Wait()
	cancel()
	// Must not deadlock: work is either run or abandoned.
	for range 10 {
		p.Enqueue(ctx, msg("later"))
	}
	p.Wait()
}

func TestPoolClosed(t *testing.T) {
	f := newFixture()
	p := dispatch.NewPool(f.d, 2)
	ctx := context.Background()
	if !p.Enqueue(ctx, msg("before")) {
		t.Error("open pool dropped a message")
	}
	p.Close()
	if p.Enqueue(ctx, msg("after")) {
		t.Error("closed pool accepted a message")
	}
	p.Wait()
	want := []string{"log:before"}
	if diff := cmp.Diff(want, f.tr.events()); diff != "" {
		t.Errorf("wrong effects (-want +got):\n%s", diff)
	}
}

func TestPoolCloseConcurrent(t *testing.T) {
	f := newFixture()
	p := dispatch.NewPool(f.d, 2)
	ctx := context.Background()
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for range 50 {
				p.Enqueue(ctx, msg("x"))
			}
		}()
	}
	close(start)
	p.Close()
	n := len(f.tr.events())
	wg.Wait()
	// Nothing runs once Close has returned.
	if m := len(f.tr.events()); m != n {
		t.Errorf("dispatches ran after close: %d before, %d after", n, m)
	}
}
