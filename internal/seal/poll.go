package seal

import (
	"context"
	"time"

	"github.com/stellar/stellar-rpc/protocol"
)

const (
	DefaultPollAttempts = 20
	DefaultPollInterval = 1500 * time.Millisecond
)

// RetryPolicy bounds the confirmation poll after a transaction was sent.
// Zero MaxAttempts and Interval take the defaults; NoWait polls without
// pausing between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	NoWait      bool
	Terminal    func(status string) bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultPollAttempts,
		Interval:    DefaultPollInterval,
		Terminal:    IsTerminal,
	}
}

// IsTerminal reports whether status is final. Anything else, NOT_FOUND
// included, means the transaction is still pending.
func IsTerminal(status string) bool {
	return status == protocol.TransactionStatusSuccess || status == protocol.TransactionStatusFailed
}

type fetchFunc func(ctx context.Context) (*protocol.GetTransactionResponse, error)

// Poll calls fetch until it reports a terminal status or the attempts run
// out, waiting Interval between attempts. It returns the last response and
// the number of attempts made. A FAILED transaction yields
// ErrTransactionFailed, exhaustion ErrTransactionTimeout. Fetch errors end
// the poll immediately.
func (p RetryPolicy) Poll(ctx context.Context, fetch fetchFunc) (*protocol.GetTransactionResponse, int, error) {
	p = p.withDefaults()

	var last *protocol.GetTransactionResponse

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		res, err := fetch(ctx)
		if err != nil {
			return last, attempt, err
		}
		last = res

		if p.Terminal(res.Status) {
			if res.Status == protocol.TransactionStatusFailed {
				return res, attempt, stageError(ErrTransactionFailed, res)
			}
			return res, attempt, nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		if err := sleep(ctx, p.Interval); err != nil {
			return last, attempt, err
		}
	}

	return last, p.MaxAttempts, stageError(ErrTransactionTimeout, nil)
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPollAttempts
	}
	switch {
	case p.NoWait:
		p.Interval = 0
	case p.Interval <= 0:
		p.Interval = DefaultPollInterval
	}
	if p.Terminal == nil {
		p.Terminal = IsTerminal
	}
	return p
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
