// Package numbering allocates human-readable transaction numbers.
//
// The persisted counter (app_settings.transaction_last_number) is reconciled
// against the numbers actually present in the transactions table on every
// allocation, so numbers freed by a deletion are handed out again once
// SyncCounter has run.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
	"github.com/logiport/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultMaxProbeAttempts bounds the upward search for a free number
const DefaultMaxProbeAttempts = 200

// Config holds allocator bounds
type Config struct {
	MaxProbeAttempts int
}

// Allocator hands out transaction numbers
type Allocator struct {
	scope   printing.TransactionScope
	cfg     Config
	logger  *zap.Logger
	metrics *telemetry.DocumentMetrics
	now     func() time.Time
}

// NewAllocator creates a new Allocator. A non-positive MaxProbeAttempts uses the default.
func NewAllocator(scope printing.TransactionScope, cfg Config, logger *zap.Logger) *Allocator {
	if cfg.MaxProbeAttempts <= 0 {
		cfg.MaxProbeAttempts = DefaultMaxProbeAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		scope:  scope,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithMetrics records allocations on m
func (a *Allocator) WithMetrics(m *telemetry.DocumentMetrics) *Allocator {
	a.metrics = m
	return a
}

// NextNumber returns the next free auto number and advances the counter.
//
// When the store fails the allocation is abandoned and a timestamp number
// T{YYYYMMDDHHMMSS}-{suffix} is returned instead. The fallback contains a
// dash, so it is a manual number and never feeds back into scanning.
// The error return is reserved for a cancelled context.
func (a *Allocator) NextNumber(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "numbering", "next_number")
	defer span.End()

	var number string
	err := a.scope.Execute(ctx, func(repos printing.TransactionalRepositories) error {
		settings := repos.Settings()
		txs := repos.Transactions()

		counter, err := readCounter(ctx, settings)
		if err != nil {
			return err
		}
		prefix, err := readPrefix(ctx, settings)
		if err != nil {
			return err
		}
		scanned, err := scanMaxAuto(ctx, txs, prefix)
		if err != nil {
			return err
		}

		next, err := a.probe(ctx, txs, max(counter, scanned)+1, prefix)
		if err != nil {
			return err
		}
		if err := settings.Set(ctx, trade.SettingLastNumber, strconv.FormatInt(next, 10)); err != nil {
			return fmt.Errorf("failed to save counter: %w", err)
		}
		number = trade.FormatNumber(next, prefix)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			telemetry.RecordError(span, ctxErr)
			return "", ctxErr
		}
		fallback := a.fallbackNumber()
		a.logger.Warn("numbering store failure, using fallback number",
			zap.Error(err),
			zap.String("fallback", fallback),
		)
		telemetry.AddEvent(span, "store_failure", "error", err.Error())
		telemetry.SetAttributes(span,
			telemetry.SpanAttrTransactionNo, fallback,
			telemetry.SpanAttrFallback, true,
		)
		a.metrics.RecordNumber(ctx, true)
		return fallback, nil
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTransactionNo, number,
		telemetry.SpanAttrFallback, false,
	)
	a.metrics.RecordNumber(ctx, false)
	a.logger.Debug("allocated transaction number", zap.String("transaction_no", number))
	return number, nil
}

// probe returns the first candidate >= start whose formatted number is unused.
// After MaxProbeAttempts occupied candidates it returns the candidate that
// follows the probe window.
func (a *Allocator) probe(ctx context.Context, txs trade.TransactionRepository, start int64, prefix string) (int64, error) {
	candidate := start
	for range a.cfg.MaxProbeAttempts {
		exists, err := txs.ExistsNumber(ctx, trade.FormatNumber(candidate, prefix))
		if err != nil {
			return 0, fmt.Errorf("failed to check transaction number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate++
	}
	a.logger.Warn("probe attempts exhausted, returning unverified candidate",
		zap.Int64("start", start),
		zap.Int64("candidate", candidate),
		zap.Int("attempts", a.cfg.MaxProbeAttempts),
	)
	return candidate, nil
}

// SyncCounter recomputes the counter from the highest auto number present and
// persists it. It is called after a transaction is deleted.
func (a *Allocator) SyncCounter(ctx context.Context) (int64, error) {
	var synced int64
	err := a.scope.Execute(ctx, func(repos printing.TransactionalRepositories) error {
		prefix, err := readPrefix(ctx, repos.Settings())
		if err != nil {
			return err
		}
		synced, err = scanMaxAuto(ctx, repos.Transactions(), prefix)
		if err != nil {
			return err
		}
		return repos.Settings().Set(ctx, trade.SettingLastNumber, strconv.FormatInt(synced, 10))
	})
	if err != nil {
		return 0, shared.WrapDomainError(shared.CodePersistenceFailed, "failed to sync transaction counter", err)
	}
	a.logger.Info("transaction counter synced", zap.Int64("last_number", synced))
	return synced, nil
}

// ObserveNumber raises the counter to the numeric part of a saved transaction
// number when it is larger. It reports whether the counter moved.
func (a *Allocator) ObserveNumber(ctx context.Context, transactionNo string) (bool, error) {
	n, ok := trade.ExtractNumericPart(transactionNo)
	if !ok {
		return false, nil
	}
	var raised bool
	err := a.scope.Execute(ctx, func(repos printing.TransactionalRepositories) error {
		current, err := readCounter(ctx, repos.Settings())
		if err != nil {
			return err
		}
		if n <= current {
			return nil
		}
		raised = true
		return repos.Settings().Set(ctx, trade.SettingLastNumber, strconv.FormatInt(n, 10))
	})
	if err != nil {
		return false, shared.WrapDomainError(shared.CodePersistenceFailed, "failed to update transaction counter", err)
	}
	return raised, nil
}

// fallbackNumber builds T{YYYYMMDDHHMMSS}-{8 hex chars}
func (a *Allocator) fallbackNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "T" + a.now().Format("20060102150405") + "-" + suffix
}

func readCounter(ctx context.Context, settings trade.SettingsRepository) (int64, error) {
	raw, err := settings.Get(ctx, trade.SettingLastNumber)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter value %q: %w", raw, err)
	}
	return n, nil
}

func readPrefix(ctx context.Context, settings trade.SettingsRepository) (string, error) {
	prefix, err := settings.Get(ctx, trade.SettingPrefix)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read prefix: %w", err)
	}
	return prefix, nil
}

func scanMaxAuto(ctx context.Context, txs trade.TransactionRepository, prefix string) (int64, error) {
	numbers, err := txs.ListNumbers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list transaction numbers: %w", err)
	}
	var best int64
	for _, no := range numbers {
		if n, ok := trade.AutoNumericValue(no, prefix); ok && n > best {
			best = n
		}
	}
	return best, nil
}
