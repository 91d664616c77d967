package http

import (
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
)

type accountResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	Balance        string    `json:"balance"`
	OpeningBalance string    `json:"opening_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Title:          a.Title,
		Type:           a.Type,
		Balance:        a.Balance.String(),
		OpeningBalance: a.Opening.String(),
		CreatedAt:      a.CreatedAt,
	}
}

func toAccountResponses(accounts []core.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

type transactionResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Balance     string    `json:"balance"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		Balance:     t.Balance.String(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionResponses(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type budgetResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Title:     b.Title,
		Type:      b.Type,
		Amount:    b.Amount.String(),
		Date:      b.Date,
		CreatedAt: b.CreatedAt,
	}
}

func toBudgetResponses(budgets []core.Budget) []budgetResponse {
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	return out
}

type reportResponse struct {
	Income     string `json:"income"`
	Expense    string `json:"expense"`
	Saved      string `json:"saved"`
	SavingRate string `json:"saving_rate"`
}

func toReportResponse(r core.Report) reportResponse {
	return reportResponse{
		Income:     r.Income.String(),
		Expense:    r.Expense.String(),
		Saved:      r.Saved.String(),
		SavingRate: r.SavingRate.String(),
	}
}

type driftResponse struct {
	AccountID string `json:"account_id"`
	Stored    string `json:"stored"`
	Computed  string `json:"computed"`
}

func toDriftResponses(drifts []ledger.Drift) []driftResponse {
	out := make([]driftResponse, 0, len(drifts))
	for _, d := range drifts {
		out = append(out, driftResponse{
			AccountID: d.AccountID,
			Stored:    d.Stored.String(),
			Computed:  d.Computed.String(),
		})
	}
	return out
}
