package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BaSui01/taskflow/internal/metrics"
	"github.com/BaSui01/taskflow/types"
)

// Summary aggregates step records for a session (or all sessions).
type Summary struct {
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Store owns the durable StepRecord sequence across the process lifetime.
// It keeps an in-memory index for fast context derivation, mirrored into
// the durable table before any recording call returns. The index and the
// backing store are mutated only by the Store itself.
type Store struct {
	mu      sync.RWMutex
	entries []StepRecord
	closed  map[string]bool

	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New opens the audit store on the given database, migrating the audit_logs
// table. metrics may be nil.
func New(db *gorm.DB, logger *zap.Logger, collector *metrics.Collector) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&auditLog{}); err != nil {
		return nil, types.NewError(types.ErrAuditStore, "migrate audit_logs").WithCause(err)
	}
	return &Store{
		closed:  make(map[string]bool),
		db:      db,
		logger:  logger.With(zap.String("component", "memory_store")),
		metrics: collector,
	}, nil
}

// OpenSession generates a unique session id and writes the session_start
// marker carrying the initial input.
func (s *Store) OpenSession(ctx context.Context, initialInput any) (string, error) {
	sessionID := uuid.NewString()
	if _, err := s.RecordStep(ctx, sessionID, StepSessionStart, ActionInput, StatusStarted, initialInput, "", nil); err != nil {
		return "", err
	}
	s.logger.Info("session opened", zap.String("session_id", sessionID))
	return sessionID, nil
}

// RecordStep appends a record to the in-memory index and the durable store.
// The durable write is synchronous: the call does not return until the row
// is persisted, and a persistence failure fails the call loudly without
// touching the index.
func (s *Store) RecordStep(ctx context.Context, sessionID, stepID, action string, status Status, result any, errMsg string, metadata map[string]any) (StepRecord, error) {
	record := StepRecord{
		SessionID: sessionID,
		StepID:    stepID,
		Action:    action,
		Status:    status,
		Result:    result,
		Error:     errMsg,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}

	row, err := record.toRow()
	if err != nil {
		s.metrics.RecordAuditWrite(err)
		return StepRecord{}, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.metrics.RecordAuditWrite(err)
		s.logger.Error("durable audit write failed",
			zap.String("session_id", sessionID),
			zap.String("step_id", stepID),
			zap.Error(err))
		return StepRecord{}, types.NewError(types.ErrAuditStore, "persist step record").WithCause(err)
	}
	s.metrics.RecordAuditWrite(nil)

	s.mu.Lock()
	s.entries = append(s.entries, record)
	s.mu.Unlock()

	s.logger.Debug("step recorded",
		zap.String("session_id", sessionID),
		zap.String("step_id", stepID),
		zap.String("action", action),
		zap.String("status", string(status)))
	return record, nil
}

// ContextFor reconstructs prior-output context for a session: a mapping from
// step id to result for every record with a non-nil result. Last write wins
// per step id for the lookup; every record stays in the durable log.
func (s *Store) ContextFor(sessionID string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any)
	for _, entry := range s.entries {
		if entry.SessionID != sessionID || entry.Result == nil {
			continue
		}
		out[entry.StepID] = entry.Result
	}
	return out
}

// CloseSession writes the session_end marker with the final output and
// marks the session logically closed. A second close is still recorded;
// callers should treat it as a caller error to be avoided.
func (s *Store) CloseSession(ctx context.Context, sessionID string, finalOutput any) error {
	if _, err := s.RecordStep(ctx, sessionID, StepSessionEnd, ActionOutput, StatusCompleted, finalOutput, "", nil); err != nil {
		return err
	}
	s.mu.Lock()
	s.closed[sessionID] = true
	s.mu.Unlock()
	s.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// Closed reports whether a session has been logically closed.
func (s *Store) Closed(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed[sessionID]
}

// SessionHistory returns the session's records in append order.
func (s *Store) SessionHistory(sessionID string) []StepRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []StepRecord
	for _, entry := range s.entries {
		if entry.SessionID == sessionID {
			out = append(out, entry)
		}
	}
	return out
}

// Summary aggregates a session's records, or all records when sessionID is
// empty. Zero records yield a zero-valued summary, never a division fault.
func (s *Store) Summary(sessionID string) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	for _, entry := range s.entries {
		if sessionID != "" && entry.SessionID != sessionID {
			continue
		}
		sum.Total++
		switch entry.Status {
		case StatusCompleted:
			sum.Completed++
		case StatusFailed:
			sum.Failed++
		}
	}
	if sum.Total > 0 {
		sum.SuccessRate = float64(sum.Completed) / float64(sum.Total) * 100
	}
	return sum
}

func (r StepRecord) toRow() (auditLog, error) {
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return auditLog{}, types.NewError(types.ErrAuditStore, "serialize step result").WithCause(err)
	}
	metadataJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return auditLog{}, types.NewError(types.ErrAuditStore, "serialize step metadata").WithCause(err)
	}
	return auditLog{
		SessionID: r.SessionID,
		StepID:    r.StepID,
		Action:    r.Action,
		Status:    string(r.Status),
		Result:    string(resultJSON),
		Error:     r.Error,
		Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		Metadata:  string(metadataJSON),
	}, nil
}
