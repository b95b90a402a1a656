package demo

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AEATech/transaction-manager-core/duration"
	"github.com/AEATech/transaction-manager-core/sqlconn"
	"github.com/AEATech/transaction-manager-core/txerror"
	"github.com/AEATech/transaction-manager-core/txmanager"
)

// NewFlakyCommand builds the "flaky" subcommand: a transaction that fails
// transiently a configurable number of times before succeeding, so the
// retry/backoff loop is visible in the demo's log output.
func NewFlakyCommand() *cobra.Command {
	var failures int

	cmd := &cobra.Command{
		Use:   "flaky",
		Short: "Run a transaction that fails transiently before succeeding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlaky(failures)
		},
	}
	cmd.Flags().IntVar(&failures, "failures", 2, "number of transient failures to simulate before success")
	return cmd
}

func runFlaky(failures int) error {
	log := newLogger()
	ctx := context.Background()

	conn, err := sqlconn.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	if err := bootstrapLedger(ctx, conn); err != nil {
		return err
	}

	wrapped := newFlakyConnection(conn, failures)

	policy, err := txmanager.NewRetryPolicy(failures+1, mustBackoff())
	if err != nil {
		return err
	}

	manager := txmanager.New(wrapped, txerror.NewClassifier(nil), loggingSleeper{log: log, inner: duration.RealSleeper{}}, nil, policy)

	counter := 0
	log.WithField("failures", failures).Info("running flaky transaction")
	result, err := manager.Run(ctx, txmanager.TxOptions{}, deferredCounterInsert{counter: &counter})
	if err != nil {
		log.WithError(err).Error("transaction failed permanently")
		return err
	}

	log.WithField("affected_rows", result.AffectedRows).Info("transaction committed after retries")
	return nil
}

// bootstrapLedger creates the ledger table outside of the retried
// transaction, since it only needs to happen once regardless of how many
// times the demo's flaky connection rejects the real run.
func bootstrapLedger(ctx context.Context, conn *sqlconn.SQLiteConnection) error {
	if err := conn.BeginTransactionWithOptions(ctx, txmanager.TxOptions{}); err != nil {
		return fmt.Errorf("begin bootstrap transaction: %w", err)
	}

	query, err := createLedgerTable().Build()
	if err != nil {
		return fmt.Errorf("build ledger table query: %w", err)
	}
	if _, err := conn.ExecuteQuery(ctx, query); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return conn.Commit(ctx)
}

// loggingSleeper logs each retry wait at Info level before actually
// sleeping for it, so the demo's retry loop is visible without needing a
// debugger.
type loggingSleeper struct {
	log   *logrus.Entry
	inner duration.Sleeper
}

func (s loggingSleeper) Sleep(d duration.Duration) {
	if d.IsPositive() {
		s.log.WithField("delay", d.String()).Info("backing off before retry")
	}
	s.inner.Sleep(d)
}
