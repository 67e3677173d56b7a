package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifies failures produced by the job core.
type ErrorKind int

const (
	// KindUnknown is the zero value and never produced by the core.
	KindUnknown ErrorKind = iota
	// KindInvalidTaskShape marks a task that is neither a Callable nor a Runnable.
	KindInvalidTaskShape
	// KindJobExecution marks a submission rejected by the worker pool.
	KindJobExecution
	// KindExecutionFailure marks a task body that returned an error or panicked.
	KindExecutionFailure
	// KindCancellation marks a job cancelled before or during execution.
	KindCancellation
	// KindInterrupted marks a waiter whose context ended while blocked.
	KindInterrupted
	// KindTimeout marks a bounded wait that expired.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTaskShape:
		return "InvalidTaskShape"
	case KindJobExecution:
		return "JobExecutionError"
	case KindExecutionFailure:
		return "ExecutionFailure"
	case KindCancellation:
		return "CancellationFailure"
	case KindInterrupted:
		return "InterruptedFailure"
	case KindTimeout:
		return "TimeoutFailure"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. Every JobError unwraps to the sentinel of its own kind. A cause
// may carry further JobErrors, so use KindOf to classify an error by its outermost kind.
var (
	ErrInvalidTaskShape = errors.New("invalid task shape")
	ErrJobExecution     = errors.New("job submission rejected")
	ErrExecutionFailure = errors.New("job execution failed")
	ErrCancelled        = errors.New("job cancelled")
	ErrInterrupted      = errors.New("interrupted while waiting for job")
	ErrTimeout          = errors.New("timed out waiting for job")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidTaskShape: ErrInvalidTaskShape,
	KindJobExecution:     ErrJobExecution,
	KindExecutionFailure: ErrExecutionFailure,
	KindCancellation:     ErrCancelled,
	KindInterrupted:      ErrInterrupted,
	KindTimeout:          ErrTimeout,
}

// JobError is the single concrete error type of the job core.
type JobError struct {
	Kind    ErrorKind
	JobID   string        // identifier of the job descriptor, if known
	Timeout time.Duration // requested timeout, KindTimeout only
	Message string
	Cause   error
}

// Error implements error.
func (e *JobError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.JobID != "" {
		fmt.Fprintf(&b, " [job=%s]", e.JobID)
	}
	if e.Kind == KindTimeout {
		fmt.Fprintf(&b, " [timeout=%s]", e.Timeout)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *JobError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindOf returns the kind of the outermost JobError in err's chain.
func KindOf(err error) ErrorKind {
	var je *JobError
	if errors.As(err, &je) {
		return je.Kind
	}
	return KindUnknown
}

// NewInvalidTaskShapeError reports a task of an unsupported type.
func NewInvalidTaskShapeError(task any) error {
	return &JobError{
		Kind:    KindInvalidTaskShape,
		Message: fmt.Sprintf("unsupported task type %T; expected domain.Callable or domain.Runnable", task),
	}
}

// NewJobExecutionError reports a rejected submission.
func NewJobExecutionError(jobID string, cause error) error {
	return &JobError{Kind: KindJobExecution, JobID: jobID, Message: "submission rejected", Cause: cause}
}

// NewExecutionFailure wraps an error raised by the body of job jobID. The cause is always
// kept as is, even when it carries a JobError of another kind (for instance a nested job's
// cancellation); only an ExecutionFailure already reported for the same job is returned
// unchanged, so translating twice does not nest.
func NewExecutionFailure(jobID string, cause error) error {
	if je, ok := cause.(*JobError); ok && je.Kind == KindExecutionFailure && je.JobID == jobID {
		return je
	}
	return &JobError{Kind: KindExecutionFailure, JobID: jobID, Cause: cause}
}

// NewCancellationError reports a cancelled job.
func NewCancellationError(jobID string) error {
	return &JobError{Kind: KindCancellation, JobID: jobID}
}

// NewInterruptedError reports a wait abandoned because its context ended.
func NewInterruptedError(jobID string, cause error) error {
	return &JobError{Kind: KindInterrupted, JobID: jobID, Cause: cause}
}

// NewTimeoutError reports an expired bounded wait.
func NewTimeoutError(jobID string, timeout time.Duration) error {
	return &JobError{Kind: KindTimeout, JobID: jobID, Timeout: timeout}
}
