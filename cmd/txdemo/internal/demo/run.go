package demo

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AEATech/transaction-manager-core/backoff"
	"github.com/AEATech/transaction-manager-core/duration"
	"github.com/AEATech/transaction-manager-core/sqlconn"
	"github.com/AEATech/transaction-manager-core/txerror"
	"github.com/AEATech/transaction-manager-core/txmanager"
)

// NewRunCommand builds the "run" subcommand: a single successful transaction
// against an in-memory sqlite database.
func NewRunCommand() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Insert one ledger entry inside a managed transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(amount)
		},
	}
	cmd.Flags().IntVar(&amount, "amount", 100, "amount to record in the ledger")
	return cmd
}

func runOnce(amount int) error {
	log := newLogger()
	ctx := context.Background()

	conn, err := sqlconn.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	policy, err := txmanager.NewRetryPolicy(3, mustBackoff())
	if err != nil {
		return err
	}

	manager := txmanager.New(conn, txerror.NewClassifier(nil), duration.RealSleeper{}, nil, policy)

	log.Info("running transaction")
	result, err := manager.Run(ctx, txmanager.TxOptions{}, createLedgerTable(), insertLedgerEntry(amount))
	if err != nil {
		log.WithError(err).Error("transaction failed")
		return err
	}

	log.WithField("affected_rows", result.AffectedRows).Info("transaction committed")
	return nil
}

func mustBackoff() backoff.Strategy {
	strategy, err := backoff.NewExponentialJitter(100, 2000, 2.0, 50)
	if err != nil {
		panic(err)
	}
	return strategy
}
