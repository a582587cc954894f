package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	expenseWindow = 30 * 24 * time.Hour
	incomeWindow  = 60 * 24 * time.Hour

	// recentPerKind is how many of the newest entries of each kind go into
	// the recent transactions feed.
	recentPerKind = 5
)

type dashboardService struct {
	ledgerRepository store.LedgerRepository

	now func() time.Time

	logger *logger.Logger
}

func NewDashboardService(ledgerRepository store.LedgerRepository, logger *logger.Logger) DashboardService {
	return &dashboardService{
		ledgerRepository: ledgerRepository,
		now:              time.Now,
		logger:           logger,
	}
}

// Summarize runs six independent ledger queries concurrently and folds them
// into the dashboard view. The first failing query cancels the others and
// fails the whole call.
//
// Window boundaries are inclusive: an entry dated exactly 30 days ago counts
// towards the expense window.
func (d *dashboardService) Summarize(ctx context.Context, userID int64) (models.Dashboard, error) {
	log := logger.FromContext(ctx)

	now := d.now()
	expenseSince := now.Add(-expenseWindow)
	incomeSince := now.Add(-incomeWindow)

	var (
		totalIncome, totalExpense       decimal.Decimal
		incomeWindowed, expenseWindowed []models.Entry
		recentIncome, recentExpense     []models.Entry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalIncome, err = d.ledgerRepository.SumEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Income})
		return wrapQueryErr("total income", err)
	})
	g.Go(func() (err error) {
		totalExpense, err = d.ledgerRepository.SumEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Expense})
		return wrapQueryErr("total expense", err)
	})
	g.Go(func() (err error) {
		incomeWindowed, err = d.ledgerRepository.ListEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Income, Since: &incomeSince})
		return wrapQueryErr("income window", err)
	})
	g.Go(func() (err error) {
		expenseWindowed, err = d.ledgerRepository.ListEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Expense, Since: &expenseSince})
		return wrapQueryErr("expense window", err)
	})
	g.Go(func() (err error) {
		recentIncome, err = d.ledgerRepository.ListEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Income, Limit: recentPerKind})
		return wrapQueryErr("recent income", err)
	})
	g.Go(func() (err error) {
		recentExpense, err = d.ledgerRepository.ListEntries(gCtx, models.EntryFilter{UserID: userID, Kind: models.Expense, Limit: recentPerKind})
		return wrapQueryErr("recent expense", err)
	})

	if err := g.Wait(); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("dashboard aggregation failed")
		return models.Dashboard{}, err
	}

	return models.Dashboard{
		TotalBalance:       totalIncome.Sub(totalExpense),
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpense,
		Last30DaysExpenses: summarizeWindow(expenseWindowed),
		Last60DaysIncome:   summarizeWindow(incomeWindowed),
		RecentTransactions: mergeRecent(recentIncome, recentExpense),
	}, nil
}

func wrapQueryErr(query string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard %s query failed: %w", query, err)
	}
	return nil
}

func summarizeWindow(entries []models.Entry) models.WindowSummary {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	return models.WindowSummary{Total: total, Transactions: entries}
}

// mergeRecent concatenates both feeds and orders them by date, newest first.
// Entries with equal dates keep income before expense.
func mergeRecent(income, expense []models.Entry) []models.Entry {
	merged := make([]models.Entry, 0, len(income)+len(expense))
	merged = append(merged, income...)
	merged = append(merged, expense...)

	slices.SortStableFunc(merged, func(a, b models.Entry) int {
		return b.Date.Compare(a.Date)
	})

	return merged
}
