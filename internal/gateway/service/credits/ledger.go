// Package credits tracks the per-user daily allowance spent on generations.
package credits

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/pipeline"
)

// CostPerCall prices methods missing from Prices, per model call.
const CostPerCall = 10

var ErrInsufficient = errors.New("not enough credits")

// Prices is the published price list per generation. SCAMPER and Mind
// Mapping are flat-priced below their call count.
var Prices = map[pipeline.MethodID]int{
	pipeline.Brainstorming: 20,
	pipeline.Scamper:       20,
	pipeline.MindMapping:   20,
	pipeline.SixHats:       70,
	pipeline.Disney:        30,
}

// Cost is the price of one generation with m.
func Cost(m *pipeline.Method) int {
	if p, ok := Prices[m.ID]; ok {
		return p
	}
	return m.Calls() * CostPerCall
}

// Balance is a user's allowance for the current UTC day.
type Balance struct {
	Remaining int       `json:"remaining"`
	Daily     int       `json:"daily"`
	ResetsAt  time.Time `json:"resets_at"`
}

type account struct {
	remaining int
	day       time.Time
}

// Ledger holds balances in a bounded LRU. An evicted user starts over with a
// full allowance.
type Ledger struct {
	mu       sync.Mutex
	daily    int
	accounts *lru.Cache[entity.UserID, account]
	now      func() time.Time
}

const DefaultLedgerSize = 100_000

func NewLedger(daily, size int) (*Ledger, error) {
	if daily < 0 {
		return nil, fmt.Errorf("daily allowance must be >= 0, got %d", daily)
	}
	if size <= 0 {
		size = DefaultLedgerSize
	}
	cache, err := lru.New[entity.UserID, account](size)
	if err != nil {
		return nil, err
	}
	return &Ledger{daily: daily, accounts: cache, now: time.Now}, nil
}

// Balance returns userID's balance, refreshing it on a new day.
func (l *Ledger) Balance(userID entity.UserID) Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.current(userID)
	return l.balance(acc)
}

// Charge deducts cost and returns the remaining balance. It fails with
// ErrInsufficient without deducting anything when the balance is too low.
func (l *Ledger) Charge(userID entity.UserID, cost int) (Balance, error) {
	if cost < 0 {
		return Balance{}, fmt.Errorf("cost must be >= 0, got %d", cost)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.current(userID)
	if acc.remaining < cost {
		return l.balance(acc), fmt.Errorf("%w: need %d, have %d", ErrInsufficient, cost, acc.remaining)
	}
	acc.remaining -= cost
	l.accounts.Add(userID, acc)
	return l.balance(acc), nil
}

// Refund returns cost charged at chargedAt. Charges from an earlier day are
// not refunded since that balance has already been reset.
func (l *Ledger) Refund(userID entity.UserID, cost int, chargedAt time.Time) Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.current(userID)
	if cost > 0 && dayOf(chargedAt).Equal(acc.day) {
		acc.remaining = min(acc.remaining+cost, l.daily)
		l.accounts.Add(userID, acc)
	}
	return l.balance(acc)
}

// Now is the ledger clock.
func (l *Ledger) Now() time.Time { return l.now() }

func (l *Ledger) current(userID entity.UserID) account {
	today := dayOf(l.now())
	acc, ok := l.accounts.Get(userID)
	if !ok || !acc.day.Equal(today) {
		acc = account{remaining: l.daily, day: today}
		l.accounts.Add(userID, acc)
	}
	return acc
}

func (l *Ledger) balance(acc account) Balance {
	return Balance{
		Remaining: acc.remaining,
		Daily:     l.daily,
		ResetsAt:  acc.day.Add(24 * time.Hour),
	}
}

func dayOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
