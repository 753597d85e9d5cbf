package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/store"
)

var (
	ErrOrchestratorClosed = errors.New("orchestrator is closed")
	ErrNoStore            = errors.New("no audit store configured")
)

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventProgress JobEventType = "progress"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For progress
	Processed int `json:"processed,omitempty"`
	Total     int `json:"total,omitempty"`

	// For results
	AuditID string `json:"audit_id,omitempty"`
	Score   int    `json:"score,omitempty"`
	Grade   string `json:"grade,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Finished reports whether s is terminal.
func (s JobStatus) Finished() bool {
	return s == JobDone || s == JobFailed || s == JobCanceled
}

type Job struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"` // "audit"
	URL        string        `json:"url"`
	ClientName string        `json:"client_name,omitempty"`
	Status     JobStatus     `json:"status"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	Events     chan JobEvent `json:"-"`

	// Set once the audit completes.
	AuditID      string `json:"audit_id,omitempty"`
	OverallScore int    `json:"overall_score,omitempty"`
	OverallGrade string `json:"overall_grade,omitempty"`

	// Audit is kept in memory when no store is configured.
	Audit *report.Audit `json:"-"`
}

// AuditStore is the persistence the orchestrator needs; *store.Store
// implements it.
type AuditStore interface {
	Save(ctx context.Context, a *report.Audit) (string, error)
	Get(ctx context.Context, id string) (*report.Audit, error)
	List(ctx context.Context, url string, limit int) ([]store.Summary, error)
	Compare(ctx context.Context, baseID, headID string) (*store.Comparison, error)
}

// Orchestrator runs audits as background jobs and exposes the audit
// history. Completed audits are saved to the store when one is set.
type Orchestrator struct {
	cfg     *Config
	auditor *Auditor
	store   AuditStore
	logger  logging.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
	closed     bool
	wg         sync.WaitGroup
}

// NewOrchestrator ties together config, auditor, store and logger. st may
// be nil, in which case audits live only on their jobs.
func NewOrchestrator(cfg *Config, auditor *Auditor, st AuditStore, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:     cfg,
		auditor: auditor,
		store:   st,
		logger:  logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
	}
}

func (o *Orchestrator) ensureJobMaps() {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setJob(job *Job) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	o.jobs[job.ID] = job
}

func (o *Orchestrator) deleteCancel(jobID string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	delete(o.jobCancels, jobID)
}

func (o *Orchestrator) getCancel(jobID string) context.CancelFunc {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobCancels[jobID]
}

func (o *Orchestrator) newJob(jobType string, req Request) *Job {
	return &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		URL:        req.URL,
		ClientName: req.ClientName,
		Status:     JobPending,
		StartedAt:  time.Now().UTC(),
		Events:     make(chan JobEvent, 16),
	}
}

// updateJob applies fn to the stored job under the lock.
func (o *Orchestrator) updateJob(jobID string, fn func(j *Job)) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if j, ok := o.jobs[jobID]; ok {
		fn(j)
	}
}

func (o *Orchestrator) setStatus(jobID string, status JobStatus, errMsg string) {
	o.updateJob(jobID, func(j *Job) {
		j.Status = status
		j.Error = errMsg
	})
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: status,
		Error:  errMsg,
	})
}

func (o *Orchestrator) progressCallback(jobID string) ProgressFunc {
	return func(processed, total int) {
		o.emitJobEvent(jobID, JobEvent{
			JobID:     jobID,
			Type:      JobEventProgress,
			Processed: processed,
			Total:     total,
		})
	}
}

// StartAuditJob validates req and starts the audit in the background. The
// returned job's Events channel is closed when the job finishes.
func (o *Orchestrator) StartAuditJob(ctx context.Context, req Request) (*Job, error) {
	if req.URL == "" {
		return nil, errors.New("audit job: url is required")
	}
	if o.auditor == nil {
		return nil, errors.New("audit job: no auditor configured")
	}

	o.ensureJobMaps()
	o.pruneJobs()

	job := o.newJob("audit", req)

	o.jobsMu.Lock()
	if o.closed {
		o.jobsMu.Unlock()
		return nil, ErrOrchestratorClosed
	}
	o.jobs[job.ID] = job
	jobCtx, cancel := context.WithCancel(ctx)
	o.jobCancels[job.ID] = cancel
	o.wg.Add(1)
	o.jobsMu.Unlock()

	jobID := job.ID
	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: JobPending,
	})

	go func() {
		defer o.wg.Done()
		defer func() {
			cancel()
			o.updateJob(jobID, func(j *Job) { j.EndedAt = time.Now().UTC() })
			o.deleteCancel(jobID)

			// Close events channel so websocket loop can terminate cleanly
			close(job.Events)
		}()

		o.setStatus(jobID, JobRunning, "")

		audit, err := o.auditor.Run(jobCtx, req, o.progressCallback(jobID))
		if err == nil && jobCtx.Err() == nil {
			err = o.persist(jobCtx, audit)
		}
		if err != nil {
			select {
			case <-jobCtx.Done():
				o.setStatus(jobID, JobCanceled, jobCtx.Err().Error())
			default:
				o.logger.Warn("audit job failed",
					logging.Field{Key: "job_id", Value: jobID},
					logging.Field{Key: "error", Value: err})
				o.setStatus(jobID, JobFailed, err.Error())
			}
			return
		}
		if jobCtx.Err() != nil {
			o.setStatus(jobID, JobCanceled, jobCtx.Err().Error())
			return
		}

		o.updateJob(jobID, func(j *Job) {
			j.Status = JobDone
			j.AuditID = audit.ID
			j.OverallScore = audit.OverallScore
			j.OverallGrade = audit.OverallGrade
			j.Audit = audit
		})
		o.emitJobEvent(jobID, JobEvent{
			JobID:   jobID,
			Type:    JobEventResult,
			Status:  JobDone,
			AuditID: audit.ID,
			Score:   audit.OverallScore,
			Grade:   audit.OverallGrade,
		})
	}()

	return job, nil
}

// persist saves a to the store, or gives it an id when there is none.
func (o *Orchestrator) persist(ctx context.Context, a *report.Audit) error {
	if o.store == nil {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		return nil
	}
	_, err := o.store.Save(ctx, a)
	return err
}

func (o *Orchestrator) CancelJob(jobID string) {
	cancel := o.getCancel(jobID)
	if cancel != nil {
		cancel()
	}
}

// GetJob returns a snapshot of the job, or nil when it is unknown.
func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// ListJobs returns snapshots of every retained job, newest first.
func (o *Orchestrator) ListJobs() []Job {
	o.pruneJobs()
	o.jobsMu.Lock()
	out := make([]Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, *j)
	}
	o.jobsMu.Unlock()
	sort.Slice(out, func(i, k int) bool { return out[i].StartedAt.After(out[k].StartedAt) })
	return out
}

// pruneJobs forgets finished jobs older than the configured retention.
func (o *Orchestrator) pruneJobs() {
	retention := o.cfg.Server.JobRetention
	if retention <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-retention)
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	for id, j := range o.jobs {
		if j.Status.Finished() && !j.EndedAt.IsZero() && j.EndedAt.Before(cutoff) {
			delete(o.jobs, id)
		}
	}
}

// Close cancels running jobs, waits for them to wind down and rejects new
// ones. It is safe to call more than once.
func (o *Orchestrator) Close() {
	o.jobsMu.Lock()
	if o.closed {
		o.jobsMu.Unlock()
		return
	}
	o.closed = true
	for _, cancel := range o.jobCancels {
		cancel()
	}
	o.jobsMu.Unlock()
	o.wg.Wait()
}

// GetAudit returns a stored audit, falling back to audits held by jobs
// when there is no store.
func (o *Orchestrator) GetAudit(ctx context.Context, id string) (*report.Audit, error) {
	if o.store != nil {
		return o.store.Get(ctx, id)
	}
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	for _, j := range o.jobs {
		if j.Audit != nil && j.Audit.ID == id {
			return j.Audit, nil
		}
	}
	return nil, store.ErrNotFound
}

func (o *Orchestrator) ListAudits(ctx context.Context, url string, limit int) ([]store.Summary, error) {
	if o.store == nil {
		return nil, ErrNoStore
	}
	return o.store.List(ctx, url, limit)
}

func (o *Orchestrator) CompareAudits(ctx context.Context, baseID, headID string) (*store.Comparison, error) {
	if o.store == nil {
		return nil, ErrNoStore
	}
	return o.store.Compare(ctx, baseID, headID)
}
