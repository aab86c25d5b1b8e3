package batch

// AcquireLockForTest takes the run lock held by o's operations.
func AcquireLockForTest(o *Orchestrator) (func(), error) {
	return o.begin()
}
