// Package document records generated documents.
//
// Every rendered artifact belongs to a doc group: one (transaction, doc_no)
// pair with a per-month sequence number. Groups are created lazily on the
// first render and reused afterwards; the document row for a (group, type,
// language) triple is overwritten on every re-render.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Defaults for Config
const (
	DefaultMaxSequenceAttempts = 8
	DefaultGroupDocNoPrefix    = "INVPL"
)

// Config holds persistence bounds
type Config struct {
	// MaxSequenceAttempts bounds the inserts tried for a new doc group
	MaxSequenceAttempts int
	// GroupDocNoPrefix is used by AllocateGroupDocNo when no prefix is given
	GroupDocNoPrefix string
}

// PersistRequest describes one rendered artifact
type PersistRequest struct {
	TransactionID uint
	DocCode       string
	Lang          shared.Language
	FilePath      string
	Totals        map[string]any
	Context       map[string]any
	// DocumentNo overrides the default {prefix}-{transaction_no}
	DocumentNo string
}

// PersistResult is the outcome of Persist
type PersistResult struct {
	GroupID          uint
	DocumentID       uint
	DocumentNo       string
	DocumentTypeCode string
	Seq              int
}

// GroupAllocation is the outcome of AllocateGroupDocNo
type GroupAllocation struct {
	GroupID    uint
	DocumentNo string
	Seq        int
}

// PersistenceService allocates doc groups and upserts generated documents
type PersistenceService struct {
	scope   printing.TransactionScope
	catalog *printing.Catalog
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewPersistenceService creates a new PersistenceService. Zero config values use the defaults.
func NewPersistenceService(scope printing.TransactionScope, catalog *printing.Catalog, cfg Config, logger *zap.Logger) *PersistenceService {
	if cfg.MaxSequenceAttempts <= 0 {
		cfg.MaxSequenceAttempts = DefaultMaxSequenceAttempts
	}
	if cfg.GroupDocNoPrefix == "" {
		cfg.GroupDocNoPrefix = DefaultGroupDocNoPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{
		scope:   scope,
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Persist records a rendered artifact in one transaction: it resolves the
// document type, reuses or creates the doc group and upserts the document
// row with status ready.
func (s *PersistenceService) Persist(ctx context.Context, req PersistRequest) (*PersistResult, error) {
	if !req.Lang.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidLanguage,
			fmt.Sprintf("unsupported language %q", req.Lang))
	}
	typeCode, err := s.catalog.DocumentTypeCode(req.DocCode)
	if err != nil {
		return nil, err
	}

	var result *PersistResult
	err = s.scope.Execute(ctx, func(repos printing.TransactionalRepositories) error {
		docType, err := repos.DocumentTypes().FindByCode(ctx, typeCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError(shared.CodeConfiguration,
					fmt.Sprintf("document type %q (doc_code %q) is not in document_types", typeCode, req.DocCode))
			}
			return fmt.Errorf("failed to load document type: %w", err)
		}

		docNo := req.DocumentNo
		if docNo == "" {
			txNo, err := displayNo(ctx, repos, req.TransactionID)
			if err != nil {
				return err
			}
			docNo = printing.DocNo(s.catalog.Prefix(req.DocCode), txNo)
		}

		group, err := s.ensureGroup(ctx, repos.DocGroups(), req.TransactionID, docNo)
		if err != nil {
			return err
		}

		doc := &printing.GeneratedDocument{
			GroupID:        group.ID,
			DocumentTypeID: docType.ID,
			Language:       req.Lang,
			Status:         printing.DocumentStatusReady,
			FilePath:       req.FilePath,
			Totals:         req.Totals,
			Data:           req.Context,
		}
		if err := repos.Documents().Upsert(ctx, doc); err != nil {
			return fmt.Errorf("failed to upsert document: %w", err)
		}

		result = &PersistResult{
			GroupID:          group.ID,
			DocumentID:       doc.ID,
			DocumentNo:       docNo,
			DocumentTypeCode: typeCode,
			Seq:              group.Seq,
		}
		return nil
	})
	if err != nil {
		return nil, asPersistenceError(err, "failed to persist document")
	}

	s.logger.Info("document persisted",
		zap.Uint("transaction_id", req.TransactionID),
		zap.String("doc_code", req.DocCode),
		zap.String("lang", req.Lang.String()),
		zap.String("doc_no", result.DocumentNo),
		zap.Uint("group_id", result.GroupID),
		zap.Int("seq", result.Seq),
	)
	return result, nil
}

// AllocateGroupDocNo reuses or creates the doc group {prefix}-{transaction_no}
// for a transaction. An empty prefix uses Config.GroupDocNoPrefix.
func (s *PersistenceService) AllocateGroupDocNo(ctx context.Context, transactionID uint, prefix string) (*GroupAllocation, error) {
	if prefix == "" {
		prefix = s.cfg.GroupDocNoPrefix
	}

	var alloc *GroupAllocation
	err := s.scope.Execute(ctx, func(repos printing.TransactionalRepositories) error {
		txNo, err := displayNo(ctx, repos, transactionID)
		if err != nil {
			return err
		}
		docNo := printing.DocNo(prefix, txNo)
		group, err := s.ensureGroup(ctx, repos.DocGroups(), transactionID, docNo)
		if err != nil {
			return err
		}
		alloc = &GroupAllocation{GroupID: group.ID, DocumentNo: docNo, Seq: group.Seq}
		return nil
	})
	if err != nil {
		return nil, asPersistenceError(err, "failed to allocate doc group")
	}
	return alloc, nil
}

// ensureGroup returns the existing group for (transactionID, docNo) or inserts
// one with the next free sequence of the current month. A unique violation
// moves to seq+1; the inserts run in savepoints so the surrounding
// transaction survives a conflict.
func (s *PersistenceService) ensureGroup(ctx context.Context, groups printing.DocGroupRepository, transactionID uint, docNo string) (*printing.DocGroup, error) {
	existing, err := groups.FindByTransactionAndDocNo(ctx, transactionID, docNo)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up doc group: %w", err)
	}

	now := s.now()
	year, month := now.Year(), int(now.Month())
	maxSeq, err := groups.MaxSeq(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to read max sequence: %w", err)
	}

	seq := maxSeq
	var group *printing.DocGroup
	attempts := 0
	op := func() error {
		attempts++
		seq++
		candidate := &printing.DocGroup{
			TransactionID: transactionID,
			DocNo:         docNo,
			Year:          year,
			Month:         month,
			Seq:           seq,
			CreatedAt:     now,
		}
		err := groups.Create(ctx, candidate)
		if err == nil {
			group = candidate
			return nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return backoff.Permanent(fmt.Errorf("failed to insert doc group: %w", err))
		}

		// the pair may have been inserted by a concurrent render
		if found, ferr := groups.FindByTransactionAndDocNo(ctx, transactionID, docNo); ferr == nil {
			group = found
			return nil
		}
		s.logger.Debug("doc group sequence taken, retrying",
			zap.String("doc_no", docNo),
			zap.Int("seq", seq),
			zap.Int("attempt", attempts),
		)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(s.cfg.MaxSequenceAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.WrapDomainError(shared.CodeAllocationExhausted,
				fmt.Sprintf("no free sequence for %s in %04d-%02d after %d attempts", docNo, year, month, attempts), err)
		}
		return nil, err
	}
	return group, nil
}

func displayNo(ctx context.Context, repos printing.TransactionalRepositories, transactionID uint) (string, error) {
	tx, err := repos.Transactions().FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.WrapDomainError(shared.CodeNotFound,
				fmt.Sprintf("transaction #%d not found", transactionID), err)
		}
		return "", fmt.Errorf("failed to load transaction: %w", err)
	}
	return tx.DisplayNo(), nil
}

// asPersistenceError passes through the pipeline's own error kinds and wraps
// everything else, store failures included, as PERSISTENCE_FAILED.
func asPersistenceError(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch shared.CodeOf(err) {
	case shared.CodeNotFound, shared.CodeConfiguration, shared.CodeAllocationExhausted, shared.CodeInvalidLanguage:
		return err
	}
	return shared.WrapDomainError(shared.CodePersistenceFailed, message, err)
}
