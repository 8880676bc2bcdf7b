package cron

import "context"

// Job is one unit of periodic work run by the worker loop. The pending-orders
// sweep is the primary implementation.
type Job interface {
	// Name identifies the job in logs and metric labels.
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle. Run order is
// registration order, so cycles are deterministic.
type Registry struct {
	jobs []Job
}

// NewRegistry builds a registry from the given jobs, dropping nil entries.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{jobs: make([]Job, 0, len(jobs))}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register appends a job. Nil jobs are ignored.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy of the registered jobs in run order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
