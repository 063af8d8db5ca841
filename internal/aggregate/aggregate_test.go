package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amounts struct {
	values []decimal.Decimal
	err    error
}

func (a amounts) Amounts(context.Context) ([]decimal.Decimal, error) {
	return a.values, a.err
}

type budget struct {
	byYear map[int][]decimal.Decimal
	asked  []int
}

func (b *budget) EntryAmountsByYear(_ context.Context, year int) ([]decimal.Decimal, error) {
	b.asked = append(b.asked, year)
	return b.byYear[year], nil
}

type projects []models.DFURProject

func (p projects) ListAll(context.Context) ([]models.DFURProject, error) {
	return p, nil
}

type backlog []store.BacklogCount

func (b backlog) Backlog(context.Context) ([]store.BacklogCount, error) {
	return b, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(collections, disbursements AmountSource) (*Service, *budget) {
	b := &budget{byYear: map[int][]decimal.Decimal{2026: {dec("1000"), dec("250.75")}}}
	svc := NewService(collections, disbursements, b, projects{
		{TotalCostApproved: dec("100000"), IsActive: true},
		{TotalCostApproved: dec("50000.50"), IsActive: false},
	}, backlog{{Kind: "collection", State: "flagged", Count: 1}})
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, b
}

func TestTotalsOverEmptySetAreZero(t *testing.T) {
	svc, _ := newService(amounts{}, amounts{})
	total, err := svc.TotalCollections(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTotalCollections(t *testing.T) {
	svc, _ := newService(amounts{values: []decimal.Decimal{dec("100"), dec("250.5")}}, amounts{})
	total, err := svc.TotalCollections(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("350.5")), total.String())
}

func TestTotalsSurfaceStorageErrors(t *testing.T) {
	boom := errors.New("db down")
	svc, _ := newService(amounts{}, amounts{err: boom})
	_, err := svc.TotalDisbursements(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTotalBudgetAllocationDefaultsToCurrentYear(t *testing.T) {
	svc, b := newService(amounts{}, amounts{})
	total, err := svc.TotalBudgetAllocation(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2026}, b.asked)
	assert.Equal(t, "1250.75", total.StringFixed(2))
}

func TestDFURSummary(t *testing.T) {
	svc, _ := newService(amounts{}, amounts{})
	summary, err := svc.DFURSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProjects)
	assert.Equal(t, 1, summary.ActiveProjects)
	assert.Equal(t, "150000.50", summary.TotalCostApproved.StringFixed(2))
}

func TestDashboard(t *testing.T) {
	svc, _ := newService(amounts{values: []decimal.Decimal{dec("500")}}, amounts{values: []decimal.Decimal{dec("120.25")}})
	d, err := svc.Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year)
	assert.Equal(t, "379.75", d.Net.StringFixed(2))
	assert.Equal(t, 2, d.DFUR.TotalProjects)
	assert.Len(t, d.PendingReviews, 1)
}

func TestDashboardFailsWhenAnyReadFails(t *testing.T) {
	svc, _ := newService(amounts{err: errors.New("timeout")}, amounts{})
	_, err := svc.Dashboard(context.Background(), 2026)
	assert.Error(t, err)
}
