package relay

import (
	"fmt"
	"sync"
	"time"
)

// Clock is the time source of the relay timer.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

func (t realTicker) C() <-chan time.Time { return t.t.C }

func (t realTicker) Stop() { t.t.Stop() }

// FormatElapsed renders a duration the way the timer display shows it.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// requestTimer overwrites the timer display with the elapsed time on every tick until stopped.
type requestTimer struct {
	clock  Clock
	start  time.Time
	ticker Ticker
	render func(string)

	stopOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func startTimer(clock Clock, interval time.Duration, render func(string)) *requestTimer {
	t := &requestTimer{
		clock:  clock,
		start:  clock.Now(),
		ticker: clock.NewTicker(interval),
		render: render,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *requestTimer) run() {
	defer close(t.done)
	for {
		select {
		case <-t.quit:
			return
		case <-t.ticker.C():
			select {
			case <-t.quit:
				return
			default:
			}
			t.render(t.elapsed())
		}
	}
}

func (t *requestTimer) elapsed() string {
	return FormatElapsed(t.clock.Now().Sub(t.start))
}

// stop halts the ticks and renders the final elapsed value once. No tick renders after stop
// returns.
func (t *requestTimer) stop() {
	t.stopOnce.Do(func() {
		close(t.quit)
		<-t.done
		t.ticker.Stop()
		t.render(t.elapsed())
	})
}
