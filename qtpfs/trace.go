package qtpfs

// SearchIteration records one Iterate call's effect on the open heap: the
// node popped and every node freshly pushed as a result, the Go analogue of
// the original engine's QTPFS_TRACE_PATH_SEARCHES compile flag
// (PathSearchTrace::Execution/AddIteration).
type SearchIteration struct {
	PoppedNode  int
	PushedNodes []int
}

// SearchTrace is the ordered record of every iteration a traced search ran,
// for offline replay or visualization. Built only when
// SearchConfig.TraceExecution is set; nil otherwise.
type SearchTrace struct {
	Iterations []SearchIteration
}
