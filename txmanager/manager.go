// Package txmanager implements the transaction retry state machine:
// begin / execute / commit / rollback / classify / sleep / reconnect,
// mediating between a Connection, an error Classifier, a BackoffStrategy
// and a Sleeper.
package txmanager

import (
	"context"

	"github.com/AEATech/transaction-manager-core/duration"
	"github.com/AEATech/transaction-manager-core/plan"
	"github.com/AEATech/transaction-manager-core/txerror"
)

// RunResult carries the outcome of a successful run: the sum of affected
// rows across every Query of the successful attempt only.
type RunResult struct {
	AffectedRows int64
}

// TransactionManager runs an ExecutionPlan against a Connection as a single
// logical database transaction, retrying transient and connection failures
// with backoff, and raising UnknownCommitStateError when a commit's outcome
// is uncertain and retry would be unsafe.
//
// A TransactionManager holds no process-wide state; two managers sharing a
// Classifier or DefaultPolicy share no runtime data. It is not safe for
// concurrent use by multiple goroutines against the same Connection: Run
// assumes single-threaded, synchronous execution.
type TransactionManager struct {
	Connection    Connection
	Classifier    *txerror.Classifier
	Sleeper       duration.Sleeper
	PlanBuilder   *plan.PlanBuilder
	DefaultPolicy RetryPolicy
}

// New constructs a TransactionManager. A nil classifier falls back to
// txerror.NewClassifier(nil) (DefaultHeuristics); a nil sleeper falls back
// to duration.RealSleeper{}; a nil planBuilder falls back to a fresh
// plan.NewPlanBuilder(nil).
func New(conn Connection, classifier *txerror.Classifier, sleeper duration.Sleeper, builder *plan.PlanBuilder, defaultPolicy RetryPolicy) *TransactionManager {
	if classifier == nil {
		classifier = txerror.NewClassifier(nil)
	}
	if sleeper == nil {
		sleeper = duration.RealSleeper{}
	}
	if builder == nil {
		builder = plan.NewPlanBuilder(nil)
	}
	return &TransactionManager{
		Connection:    conn,
		Classifier:    classifier,
		Sleeper:       sleeper,
		PlanBuilder:   builder,
		DefaultPolicy: defaultPolicy,
	}
}

// Run executes operations as a single retried transaction and returns the
// affected-row total of the successful attempt. The plan is built exactly
// once, before the first transaction begins, and replayed unchanged on
// every retry.
func (m *TransactionManager) Run(ctx context.Context, options TxOptions, operations ...plan.Operation) (RunResult, error) {
	executionPlan, err := m.PlanBuilder.Build(operations...)
	if err != nil {
		return RunResult{}, err
	}

	policy := options.RetryPolicy
	if policy == nil {
		policy = &m.DefaultPolicy
	}

	attempt := 0
	for {
		result, err := m.runAttempt(ctx, executionPlan, options, attempt)
		if err == nil {
			return result, nil
		}

		var uncommitted *UnknownCommitStateError
		if asUnknownCommitState(err, &uncommitted) {
			return RunResult{}, uncommitted
		}

		kind := m.Classifier.Classify(err)
		if kind == txerror.Fatal {
			return RunResult{}, err
		}

		if attempt >= policy.MaxRetries {
			return RunResult{}, err
		}

		if kind == txerror.Connection {
			_ = m.Connection.Close()
		}

		m.Sleeper.Sleep(policy.Backoff.Delay(attempt))
		attempt++
	}
}

// runAttempt runs exactly one attempt: begin, execute every step, commit.
func (m *TransactionManager) runAttempt(ctx context.Context, executionPlan *plan.ExecutionPlan, options TxOptions, attempt int) (RunResult, error) {
	var total int64
	isCommitting := false

	if err := m.beginTransaction(ctx, options, attempt == 0); err != nil {
		return RunResult{}, m.wrapOnFailure(ctx, err, isCommitting, executionPlan)
	}

	// Each rebuilds deferred steps immediately before executing them, so
	// they observe I/O performed by earlier steps within this same attempt.
	execErr := executionPlan.Each(func(_ int, q plan.Query) error {
		rows, err := m.Connection.ExecuteQuery(ctx, q)
		if err != nil {
			return err
		}
		total += rows
		return nil
	})
	if execErr != nil {
		return RunResult{}, m.wrapOnFailure(ctx, execErr, isCommitting, executionPlan)
	}

	isCommitting = true
	if err := m.Connection.Commit(ctx); err != nil {
		return RunResult{}, m.wrapOnFailure(ctx, err, isCommitting, executionPlan)
	}

	return RunResult{AffectedRows: total}, nil
}

// wrapOnFailure performs the safe rollback and, when the failure happened
// while committing a non-idempotent plan, wraps it as
// UnknownCommitStateError per the commit-uncertainty rule. This check fires
// before classification and before the retry budget is consulted.
func (m *TransactionManager) wrapOnFailure(ctx context.Context, cause error, isCommitting bool, executionPlan *plan.ExecutionPlan) error {
	m.safeRollback(ctx)

	if isCommitting && !executionPlan.IsIdempotent() {
		return &UnknownCommitStateError{Cause: cause}
	}
	return cause
}

// beginTransaction opens a transaction. When allowReconnect is true (the
// first attempt only) a begin failure triggers one free reconnect: close
// the Connection and try BeginTransactionWithOptions exactly once more,
// propagating whatever that second attempt returns. This reconnect is not
// charged against the retry budget. When allowReconnect is false, the
// original error propagates unchanged.
func (m *TransactionManager) beginTransaction(ctx context.Context, options TxOptions, allowReconnect bool) error {
	err := m.Connection.BeginTransactionWithOptions(ctx, options)
	if err == nil {
		return nil
	}
	if !allowReconnect {
		return err
	}

	_ = m.Connection.Close()
	return m.Connection.BeginTransactionWithOptions(ctx, options)
}

// safeRollback calls RollBack and discards any error it raises; it never
// raises, so it cannot mask the original failure that triggered it.
func (m *TransactionManager) safeRollback(ctx context.Context) {
	_ = m.Connection.RollBack(ctx)
}

func asUnknownCommitState(err error, target **UnknownCommitStateError) bool {
	u, ok := err.(*UnknownCommitStateError)
	if !ok {
		return false
	}
	*target = u
	return true
}
