package credits

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/pipeline/methods"
)

const user entity.UserID = "tg:1"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLedger(t *testing.T, daily int) (*Ledger, *clock) {
	t.Helper()
	l, err := NewLedger(daily, 16)
	require.NoError(t, err)
	c := &clock{t: time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)}
	l.now = c.now
	return l, c
}

func TestCost_FollowsPriceList(t *testing.T) {
	want := map[string]int{"disney": 30, "brainstorming": 20, "scamper": 20, "sixHats": 70, "mindMapping": 20}
	for _, m := range methods.All() {
		assert.Equal(t, want[string(m.ID)], Cost(&m), m.ID)
	}
}

func TestCost_UnlistedMethodPaysPerCall(t *testing.T) {
	m := pipeline.Method{ID: "lateral", Steps: make([]pipeline.Step, 4)}
	assert.Equal(t, 40, Cost(&m))
}

func TestLedger_NewUserStartsWithDailyAllowance(t *testing.T) {
	l, _ := newLedger(t, 200)
	b := l.Balance(user)
	assert.Equal(t, 200, b.Remaining)
	assert.Equal(t, 200, b.Daily)
	assert.Equal(t, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC), b.ResetsAt)
}

func TestLedger_ChargeUntilInsufficient(t *testing.T) {
	l, _ := newLedger(t, 100)

	b, err := l.Charge(user, 70)
	require.NoError(t, err)
	assert.Equal(t, 30, b.Remaining)

	b, err = l.Charge(user, 70)
	assert.ErrorIs(t, err, ErrInsufficient)
	assert.Equal(t, 30, b.Remaining)

	b, err = l.Charge(user, 30)
	require.NoError(t, err)
	assert.Zero(t, b.Remaining)
}

func TestLedger_ResetsOnNewUTCDay(t *testing.T) {
	l, c := newLedger(t, 200)
	_, err := l.Charge(user, 150)
	require.NoError(t, err)

	c.t = c.t.Add(8*time.Hour + 31*time.Minute)
	assert.Equal(t, 200, l.Balance(user).Remaining)
}

func TestLedger_RefundSameDayOnly(t *testing.T) {
	l, c := newLedger(t, 200)
	chargedAt := c.t
	_, err := l.Charge(user, 70)
	require.NoError(t, err)

	assert.Equal(t, 200, l.Refund(user, 70, chargedAt).Remaining)
	assert.Equal(t, 200, l.Refund(user, 70, chargedAt).Remaining, "refund never exceeds the allowance")

	_, err = l.Charge(user, 70)
	require.NoError(t, err)
	c.t = c.t.Add(24 * time.Hour)
	_, err = l.Charge(user, 50)
	require.NoError(t, err)
	assert.Equal(t, 150, l.Refund(user, 70, chargedAt).Remaining)
}

func TestLedger_UsersAreIndependent(t *testing.T) {
	l, _ := newLedger(t, 50)
	_, err := l.Charge(user, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, l.Balance("tg:2").Remaining)
}

func TestLedger_ConcurrentChargesNeverOverdraw(t *testing.T) {
	l, _ := newLedger(t, 100)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Charge(user, 30); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, ok)
	assert.Equal(t, 10, l.Balance(user).Remaining)
}

func TestNewLedger_RejectsNegativeAllowance(t *testing.T) {
	_, err := NewLedger(-1, 0)
	assert.Error(t, err)
}
