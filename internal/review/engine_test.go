package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/logging"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type record struct {
	status     string
	flagged    bool
	comment    string
	reviewedBy int64
	reviewedAt time.Time
}

// memoryStore keeps review columns keyed by kind and id.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]map[int64]*record
	calls   int
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]map[int64]*record{
		"collection":   {1: {status: "pending"}},
		"disbursement": {},
		"dfur":         {},
	}}
}

func (m *memoryStore) SetFlag(_ context.Context, _ store.Execer, kind string, id, reviewerID int64, comment string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	rows, ok := m.records[kind]
	if !ok {
		return 0, store.ErrUnknownKind
	}
	rec, ok := rows[id]
	if !ok {
		return 0, nil
	}
	rec.flagged, rec.comment, rec.reviewedBy, rec.reviewedAt = true, comment, reviewerID, at
	return 1, nil
}

func (m *memoryStore) SetStatus(_ context.Context, _ store.Execer, kind string, id int64, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	rows, ok := m.records[kind]
	if !ok {
		return 0, store.ErrUnknownKind
	}
	rec, ok := rows[id]
	if !ok {
		return 0, nil
	}
	rec.status = status
	return 1, nil
}

type memoryAudit struct {
	entries []store.AuditEntry
}

func (a *memoryAudit) Log(_ context.Context, _ store.Execer, entry store.AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event Event) error {
	n.events = append(n.events, event)
	return n.err
}

type countingMetrics map[string]int

func (c countingMetrics) ObserveTransition(kind, action, result string) {
	c[kind+"/"+action+"/"+result]++
}

var fixedNow = time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC)

type fixture struct {
	engine   *Engine
	store    *memoryStore
	audit    *memoryAudit
	notifier *recordingNotifier
	metrics  countingMetrics
}

func newFixture() fixture {
	f := fixture{
		store:    newMemoryStore(),
		audit:    &memoryAudit{},
		notifier: &recordingNotifier{},
		metrics:  countingMetrics{},
	}
	f.engine = NewEngine(Deps{
		Tx:       fakeTxRunner{},
		Store:    f.store,
		Audit:    f.audit,
		Notifier: f.notifier,
		Metrics:  f.metrics,
		Logger:   logging.Discard(),
		Clock:    func() time.Time { return fixedNow },
	})
	return f
}

func TestFlagSetsReviewFields(t *testing.T) {
	f := newFixture()
	err := f.engine.Flag(context.Background(), FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 3, Comment: "  missing docs "})
	require.NoError(t, err)

	rec := f.store.records["collection"][1]
	assert.True(t, rec.flagged)
	assert.Equal(t, "missing docs", rec.comment)
	assert.Equal(t, int64(3), rec.reviewedBy)
	assert.Equal(t, fixedNow, rec.reviewedAt)
	assert.Equal(t, "pending", rec.status)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "flag", f.audit.entries[0].Action)
	assert.JSONEq(t, `{"comment":"missing docs"}`, string(f.audit.entries[0].Detail))
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, ActionFlag, f.notifier.events[0].Action)
	assert.Equal(t, 1, f.metrics["collection/flag/ok"])
}

func TestFlagTwiceKeepsLastComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.engine.Flag(ctx, FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 3, Comment: "first"}))
	require.NoError(t, f.engine.Flag(ctx, FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 4, Comment: "second"}))

	rec := f.store.records["collection"][1]
	assert.Equal(t, "second", rec.comment)
	assert.Equal(t, int64(4), rec.reviewedBy)
}

func TestFlagRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		req  FlagRequest
	}{
		{"unknown kind", FlagRequest{Kind: "payroll", EntityID: 1, ReviewerID: 3, Comment: "x"}},
		{"blank comment", FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 3, Comment: "   "}},
		{"zero id", FlagRequest{Kind: KindCollection, EntityID: 0, ReviewerID: 3, Comment: "x"}},
		{"missing reviewer", FlagRequest{Kind: KindCollection, EntityID: 1, Comment: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			err := f.engine.Flag(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.store.calls)
			assert.False(t, f.store.records["collection"][1].flagged)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestFlagMissingRecord(t *testing.T) {
	f := newFixture()
	err := f.engine.Flag(context.Background(), FlagRequest{Kind: KindDisbursement, EntityID: 42, ReviewerID: 3, Comment: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.audit.entries)
	assert.Equal(t, 1, f.metrics["disbursement/flag/not_found"])
}

func TestFlagStorageFailureIsWrapped(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.store.err = boom
	err := f.engine.Flag(context.Background(), FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 3, Comment: "x"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.metrics["collection/flag/error"])
}

func TestApproveRecordsDecisionAndKeepsFlag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.engine.Flag(ctx, FlagRequest{Kind: KindCollection, EntityID: 1, ReviewerID: 3, Comment: "missing docs"}))
	require.NoError(t, f.engine.Approve(ctx, ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: DecisionApproved, ApproverID: 5}))

	rec := f.store.records["collection"][1]
	assert.Equal(t, "approved", rec.status)
	assert.True(t, rec.flagged)
	assert.Equal(t, "missing docs", rec.comment)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, int64(5), f.audit.entries[1].ActorID)
	assert.Equal(t, "approved", f.notifier.events[1].Status)
}

func TestApproveRejectsUnknownDecision(t *testing.T) {
	f := newFixture()
	err := f.engine.Approve(context.Background(), ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: "maybe", ApproverID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.store.calls)
	assert.Equal(t, "pending", f.store.records["collection"][1].status)
}

func TestApproveNormalizesDecisionAndKind(t *testing.T) {
	f := newFixture()
	err := f.engine.Approve(context.Background(), ApproveRequest{Kind: " Collection ", EntityID: 1, Decision: " APPROVED ", ApproverID: 5})
	require.NoError(t, err)

	assert.Equal(t, "approved", f.store.records["collection"][1].status)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "collection", f.audit.entries[0].EntityKind)
	assert.JSONEq(t, `{"decision":"approved"}`, string(f.audit.entries[0].Detail))
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, KindCollection, f.notifier.events[0].Kind)
	assert.Equal(t, "approved", f.notifier.events[0].Status)
	assert.Equal(t, 1, f.metrics["collection/approve/ok"])
}

func TestApproveAllowsReentry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.engine.Approve(ctx, ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: DecisionApproved, ApproverID: 5}))
	require.NoError(t, f.engine.Approve(ctx, ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: DecisionRejected, ApproverID: 5}))
	assert.Equal(t, "rejected", f.store.records["collection"][1].status)
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")
	err := f.engine.Approve(context.Background(), ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: DecisionRejected, ApproverID: 5})
	assert.NoError(t, err)
	assert.Equal(t, "rejected", f.store.records["collection"][1].status)
}

func TestTransactionFailureSkipsNotification(t *testing.T) {
	f := newFixture()
	f.engine.tx = fakeTxRunner{withTxFn: func(context.Context, func(*sqlx.Tx) error) error {
		return errors.New("serialization retries exhausted")
	}}
	err := f.engine.Approve(context.Background(), ApproveRequest{Kind: KindCollection, EntityID: 1, Decision: DecisionApproved, ApproverID: 5})
	assert.Error(t, err)
	assert.Empty(t, f.notifier.events)
}

func TestParseKindAndDecision(t *testing.T) {
	kind, err := ParseKind(" DFUR ")
	require.NoError(t, err)
	assert.Equal(t, KindDFUR, kind)
	_, err = ParseKind("budget")
	assert.ErrorIs(t, err, ErrInvalidInput)

	decision, err := ParseDecision("Rejected")
	require.NoError(t, err)
	assert.Equal(t, DecisionRejected, decision)
	_, err = ParseDecision("pending")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role   models.Role
		action Action
		ok     bool
	}{
		{models.RoleEncoder, ActionCreate, true},
		{models.RoleEncoder, ActionFlag, false},
		{models.RoleChecker, ActionFlag, true},
		{models.RoleChecker, ActionApprove, false},
		{models.RoleReviewer, ActionFlag, true},
		{models.RoleApprover, ActionApprove, true},
		{models.RoleApprover, ActionCreate, false},
		{models.RoleAdmin, ActionApprove, true},
		{models.RoleSuperadmin, ActionCreate, true},
		{models.Role("viewer"), ActionFlag, false},
	}
	for _, tc := range cases {
		err := Authorize(tc.role, tc.action)
		if tc.ok {
			assert.NoError(t, err, "%s %s", tc.role, tc.action)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s", tc.role, tc.action)
		}
	}
}
