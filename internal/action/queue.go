package action

// Queue is the ordered outbox between the core and the adapter. The core only
// pushes; the adapter drains between events.
type Queue struct {
	items []Action
}

// Push appends an action.
func (q *Queue) Push(a Action) {
	q.items = append(q.items, a)
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	return len(q.items)
}

// Peek returns the pending actions without removing them.
func (q *Queue) Peek() []Action {
	out := make([]Action, len(q.items))
	copy(out, q.items)
	return out
}

// Drain removes and returns every pending action in push order.
func (q *Queue) Drain() []Action {
	out := q.items
	q.items = nil
	return out
}
