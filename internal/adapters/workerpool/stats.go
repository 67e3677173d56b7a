package workerpool

// Stats is a point-in-time view of the pool, used for logging and metrics.
type Stats struct {
	Workers   int   // Number of worker goroutines
	Queued    int   // Futures waiting for a free worker
	Active    int   // Futures currently running
	Delayed   int   // Futures waiting in the delay queue
	Rejected  int64 // Total rejected submissions
	Completed int64 // Total finished runs (including periodic recurrences)
	Running   bool  // False once Shutdown was called
}

// Stats returns the current pool statistics.
func (wp *WorkerPool) Stats() Stats {
	wp.mu.Lock()
	delayed := wp.delayed.Len()
	running := !wp.stopped
	wp.mu.Unlock()

	return Stats{
		Workers:   wp.workers,
		Queued:    len(wp.workerQueue),
		Active:    int(wp.active.Load()),
		Delayed:   delayed,
		Rejected:  wp.rejected.Load(),
		Completed: wp.completed.Load(),
		Running:   running,
	}
}
