package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/db"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type RecordStore interface {
	SetFlag(ctx context.Context, tx store.Execer, kind string, id, reviewerID int64, comment string, at time.Time) (int64, error)
	SetStatus(ctx context.Context, tx store.Execer, kind string, id int64, status string) (int64, error)
}

type AuditLog interface {
	Log(ctx context.Context, tx store.Execer, entry store.AuditEntry) error
}

// Notifier is told about every committed transition.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

type Metrics interface {
	ObserveTransition(kind, action, result string)
}

// Event describes a committed transition.
type Event struct {
	Kind     Kind      `json:"kind"`
	EntityID int64     `json:"entity_id"`
	Action   Action    `json:"action"`
	Status   string    `json:"status,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	ActorID  int64     `json:"actor_id"`
	At       time.Time `json:"at"`
}

type Deps struct {
	Tx       db.TxRunner
	Store    RecordStore
	Audit    AuditLog
	Notifier Notifier
	Metrics  Metrics
	Logger   logrus.FieldLogger
	Clock    func() time.Time
}

type Engine struct {
	tx       db.TxRunner
	store    RecordStore
	audit    AuditLog
	notifier Notifier
	metrics  Metrics
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewEngine(deps Deps) *Engine {
	e := &Engine{
		tx:       deps.Tx,
		store:    deps.Store,
		audit:    deps.Audit,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		log:      deps.Logger,
		now:      deps.Clock,
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

type FlagRequest struct {
	Kind       Kind
	EntityID   int64
	ReviewerID int64
	Comment    string
}

type ApproveRequest struct {
	Kind       Kind
	EntityID   int64
	Decision   Decision
	ApproverID int64
}

// Flag records a checker's comment against a record. The record's
// review_status is left unchanged; flagging again replaces the comment.
func (e *Engine) Flag(ctx context.Context, req FlagRequest) error {
	comment := strings.TrimSpace(req.Comment)
	kind, err := validateTarget(req.Kind, req.EntityID, req.ReviewerID)
	if err != nil {
		return e.fail(req.Kind, ActionFlag, err)
	}
	req.Kind = kind
	if comment == "" {
		return e.fail(req.Kind, ActionFlag, fmt.Errorf("%w: comment is required", ErrInvalidInput))
	}

	at := e.now().UTC()
	detail, _ := json.Marshal(map[string]string{"comment": comment})
	err = e.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := e.store.SetFlag(ctx, tx, string(req.Kind), req.EntityID, req.ReviewerID, comment, at)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return e.audit.Log(ctx, tx, store.AuditEntry{
			EntityKind: string(req.Kind),
			EntityID:   req.EntityID,
			Action:     string(ActionFlag),
			ActorID:    req.ReviewerID,
			Detail:     detail,
			CreatedAt:  at,
		})
	})
	if err != nil {
		return e.fail(req.Kind, ActionFlag, err)
	}

	e.committed(ctx, Event{
		Kind:     req.Kind,
		EntityID: req.EntityID,
		Action:   ActionFlag,
		Comment:  comment,
		ActorID:  req.ReviewerID,
		At:       at,
	})
	return nil
}

// Approve records an approver's decision. Flag fields are preserved.
func (e *Engine) Approve(ctx context.Context, req ApproveRequest) error {
	kind, err := validateTarget(req.Kind, req.EntityID, req.ApproverID)
	if err != nil {
		return e.fail(req.Kind, ActionApprove, err)
	}
	req.Kind = kind
	decision, err := ParseDecision(string(req.Decision))
	if err != nil {
		return e.fail(req.Kind, ActionApprove, err)
	}

	at := e.now().UTC()
	detail, _ := json.Marshal(map[string]string{"decision": string(decision)})
	err = e.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := e.store.SetStatus(ctx, tx, string(req.Kind), req.EntityID, string(decision))
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return e.audit.Log(ctx, tx, store.AuditEntry{
			EntityKind: string(req.Kind),
			EntityID:   req.EntityID,
			Action:     string(ActionApprove),
			ActorID:    req.ApproverID,
			Detail:     detail,
			CreatedAt:  at,
		})
	})
	if err != nil {
		return e.fail(req.Kind, ActionApprove, err)
	}

	e.committed(ctx, Event{
		Kind:     req.Kind,
		EntityID: req.EntityID,
		Action:   ActionApprove,
		Status:   string(decision),
		ActorID:  req.ApproverID,
		At:       at,
	})
	return nil
}

// validateTarget returns kind in its canonical form.
func validateTarget(kind Kind, entityID, actorID int64) (Kind, error) {
	parsed, err := ParseKind(string(kind))
	if err != nil {
		return "", err
	}
	if entityID <= 0 {
		return "", fmt.Errorf("%w: record id must be positive", ErrInvalidInput)
	}
	if actorID <= 0 {
		return "", fmt.Errorf("%w: actor id must be positive", ErrInvalidInput)
	}
	return parsed, nil
}

func (e *Engine) fail(kind Kind, action Action, err error) error {
	result := "error"
	switch {
	case errors.Is(err, store.ErrUnknownKind):
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		result = "invalid"
	case errors.Is(err, ErrInvalidInput):
		result = "invalid"
	case errors.Is(err, ErrNotFound), errors.Is(err, store.ErrNotFound):
		err = ErrNotFound
		result = "not_found"
	default:
		err = fmt.Errorf("%s %s: %w", action, kind, err)
	}
	e.observe(kind, action, result)
	return err
}

func (e *Engine) committed(ctx context.Context, event Event) {
	e.observe(event.Kind, event.Action, "ok")
	e.log.WithFields(logrus.Fields{
		"kind":      event.Kind,
		"entity_id": event.EntityID,
		"action":    event.Action,
		"actor_id":  event.ActorID,
		"status":    event.Status,
	}).Info("review transition")
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, event); err != nil {
		e.log.WithError(err).WithField("entity_id", event.EntityID).Warn("review notification failed")
	}
}

func (e *Engine) observe(kind Kind, action Action, result string) {
	if e.metrics == nil {
		return
	}
	if _, err := ParseKind(string(kind)); err != nil {
		kind = "unknown"
	}
	e.metrics.ObserveTransition(string(kind), string(action), result)
}
