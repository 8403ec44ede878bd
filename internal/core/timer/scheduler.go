package timer

import (
	"container/heap"
	"time"
)

// Task is a one-shot delayed callback. It receives the time the scheduler
// ran it, and must re-validate whatever condition it depends on.
type Task func(now time.Time)

type entry struct {
	at   time.Time
	seq  uint64
	name string
	fn   Task
}

type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler holds pending one-shot tasks ordered by due time. There is no
// cancel: a task whose trigger no longer applies becomes a no-op when it runs.
// Single-goroutine access only (game loop).
type Scheduler struct {
	q   queue
	seq uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// At schedules fn to run at the first RunDue call with now >= at.
// Tasks due at the same instant run in scheduling order.
func (s *Scheduler) At(at time.Time, name string, fn Task) {
	s.seq++
	heap.Push(&s.q, &entry{at: at, seq: s.seq, name: name, fn: fn})
}

// RunDue runs every task due at or before now and returns how many ran.
// Tasks scheduled by a running task are eligible in the same call if due.
func (s *Scheduler) RunDue(now time.Time) int {
	n := 0
	for len(s.q) > 0 && !s.q[0].at.After(now) {
		e := heap.Pop(&s.q).(*entry)
		e.fn(now)
		n++
	}
	return n
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.q)
}

// Pending returns the number of pending tasks with the given name.
func (s *Scheduler) Pending(name string) int {
	n := 0
	for _, e := range s.q {
		if e.name == name {
			n++
		}
	}
	return n
}
