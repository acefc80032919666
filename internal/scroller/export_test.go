package scroller

type (
	Debouncer = debouncer
	Coalescer = coalescer
)

var (
	NewDebouncer = newDebouncer
	NewCoalescer = newCoalescer
	IdleOrFrame  = idleOrFrame
)
