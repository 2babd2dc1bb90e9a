package scheduler

import (
	"testing"
	"time"
)

const runCount = 500000

func TestRunAndRepeat(t *testing.T) {
	count := 0
	repeat := 0
	cancel := RepeatUntil(func() {
		count++
		repeat++
	}, time.Millisecond)
	defer cancel()

	for i := 0; i < runCount; i++ {
		Run(func() { count++ })
	}
	time.Sleep(time.Millisecond) // wait all runs done
	if count < runCount {
		t.Error()
	}
}

func TestRepeatUntilCancels(t *testing.T) {
	var count int
	cancel := RepeatUntil(func() { count++ }, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()
	after := count
	time.Sleep(10 * time.Millisecond)
	if count > after+1 {
		t.Errorf("task kept firing after cancel: before=%d after=%d", after, count)
	}
}
