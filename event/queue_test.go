package event

import "testing"

func TestScheduleAndPopFIFO(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 3; i++ {
		if !q.ScheduleEvents(Packet{Timestamp: uint64(i)}) {
			t.Fatalf("expected ScheduleEvents to succeed at i=%d", i)
		}
	}
	for i := 0; i < 3; i++ {
		p, ok := q.Pop()
		if !ok || p.Timestamp != uint64(i) {
			t.Fatalf("expected packet %d, got %+v ok=%v", i, p, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestScheduleEventsReturnsFalseWhenFull(t *testing.T) {
	q := NewQueue(2) // rounds up to capacity 2
	ok1 := q.ScheduleEvents(Packet{})
	ok2 := q.ScheduleEvents(Packet{})
	ok3 := q.ScheduleEvents(Packet{})
	if !ok1 || !ok2 {
		t.Fatal("expected first two schedules to succeed")
	}
	if ok3 {
		t.Fatal("expected third schedule to fail once the ring is full")
	}
}

func TestClearDiscardsQueuedPackets(t *testing.T) {
	q := NewQueue(4)
	q.ScheduleEvents(Packet{Timestamp: 1})
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("expected empty queue after Clear, got len=%d", q.Len())
	}
}

func TestDrainIntoPreservesOrder(t *testing.T) {
	src := NewQueue(4)
	dst := NewQueue(4)
	for i := 0; i < 3; i++ {
		src.ScheduleEvents(Packet{Timestamp: uint64(i)})
	}
	src.DrainInto(dst)
	if src.Len() != 0 {
		t.Fatalf("expected src drained, got len=%d", src.Len())
	}
	for i := 0; i < 3; i++ {
		p, ok := dst.Pop()
		if !ok || p.Timestamp != uint64(i) {
			t.Fatalf("expected packet %d in dst, got %+v ok=%v", i, p, ok)
		}
	}
}
