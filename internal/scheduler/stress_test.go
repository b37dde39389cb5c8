package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// edgeZone returns a zone in which now is the last second before midnight.
func edgeZone(now time.Time) *time.Location {
	utc := now.UTC()
	sod := utc.Hour()*3600 + utc.Minute()*60 + utc.Second()
	return time.FixedZone("edge", 86399-sod)
}

func TestEngineStressConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	const cancelEvery = 10

	now := time.Now()
	loc := edgeZone(now)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			if _, err := engine.ScheduleRollover(now, loc); err != nil {
				t.Errorf("schedule rollover failed: %v", err)
				return
			}
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				at := now.Add(time.Duration((w+i)%50+10) * time.Millisecond)
				if i%cancelEvery == 0 {
					at = now.Add(time.Hour)
				}
				if err := engine.Schedule(Event{ID: id, Kind: KindClockTick, At: at}); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
				if i%cancelEvery == 0 && !engine.Cancel(id) {
					t.Errorf("cancel %s: not found", id)
					return
				}
			}
		}()
	}
	wg.Wait()

	wantTicks := workers * (perWorker - perWorker/cancelEvery)
	wantRollovers := workers
	deadline := time.After(5 * time.Second)
	var ticks, rollovers int64
	for atomic.LoadInt64(&ticks) < int64(wantTicks) || atomic.LoadInt64(&rollovers) < int64(wantRollovers) {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: ticks=%d/%d rollovers=%d/%d dropped=%d",
				ticks, wantTicks, rollovers, wantRollovers, engine.Dropped())
		case ev := <-engine.C():
			switch ev.Kind {
			case KindClockTick:
				atomic.AddInt64(&ticks, 1)
			case KindDayRollover:
				local := ev.At.In(loc)
				if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 {
					t.Fatalf("rollover fired at %v, want local midnight", local)
				}
				atomic.AddInt64(&rollovers, 1)
			default:
				t.Fatalf("unexpected kind %q", ev.Kind)
			}
		}
	}

	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
	if got := engine.Pending(); got != 0 {
		t.Fatalf("cancelled events still queued: %d", got)
	}
}
