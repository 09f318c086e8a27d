package web

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/ledger/ast"
	"github.com/robinvdvleuten/ledger/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Roots       []*BalanceNodeResponse `json:"roots"`
	Commodities []string               `json:"commodities"`
	StartDate   *string                `json:"startDate,omitempty"`
	EndDate     *string                `json:"endDate,omitempty"`
}

// BalanceNodeResponse represents a node in the balance tree for JSON serialization.
type BalanceNodeResponse struct {
	Name     string                     `json:"name"`
	Account  string                     `json:"account"`
	Depth    int                        `json:"depth"`
	Balance  map[string]decimal.Decimal `json:"balance"`
	Display  []string                   `json:"display"`
	Children []*BalanceNodeResponse     `json:"children,omitempty"`
}

// handleGetBalances returns the per-commodity balance of every account as a
// tree. Parent balances include their sub-accounts.
//
// Query parameters:
//   - account: Only include these top-level trees, e.g. account=Assets.
//     May be repeated.
//   - startDate, endDate: Only count entries dated within the range, both
//     inclusive, written YYYY/MM/DD or YYYY-MM-DD. Either may be omitted.
//
// Examples:
//   - GET /api/balances - Trial balance over all entries
//   - GET /api/balances?account=Assets&account=Liabilities&endDate=2024-01-31 - Balance sheet
//   - GET /api/balances?account=Income&account=Expenses&startDate=2024-01-01&endDate=2024-01-31 - Income statement
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	startDate, err := parseDateParam(query.Get("startDate"))
	if err != nil {
		http.Error(w, "invalid startDate (expected YYYY/MM/DD): "+query.Get("startDate"), http.StatusBadRequest)
		return
	}
	endDate, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		http.Error(w, "invalid endDate (expected YYYY/MM/DD): "+query.Get("endDate"), http.StatusBadRequest)
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(startDate.Time) {
		http.Error(w, "endDate is before startDate", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := ledger.New(ledger.WithRegistry(s.ledger.Registry()))
	for _, e := range s.ledger.Entries() {
		if startDate != nil && e.Date.Before(startDate.Time) {
			continue
		}
		if endDate != nil && e.Date.After(endDate.Time) {
			continue
		}
		view.Append(e)
	}

	roots := query["account"]
	response := &BalancesResponse{Roots: []*BalanceNodeResponse{}, Commodities: []string{}}
	commodities := map[string]bool{}

	for _, account := range view.Accounts() {
		if account.Depth() != 1 {
			continue
		}
		if len(roots) > 0 && !slices.Contains(roots, account.Path()) {
			continue
		}
		node, err := balanceNode(account, commodities)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		response.Roots = append(response.Roots, node)
	}

	for sym := range commodities {
		response.Commodities = append(response.Commodities, sym)
	}
	slices.Sort(response.Commodities)

	if startDate != nil {
		d := startDate.String()
		response.StartDate = &d
	}
	if endDate != nil {
		d := endDate.String()
		response.EndDate = &d
	}

	writeJSONResponse(w, response)
}

func balanceNode(account ledger.Account, commodities map[string]bool) (*BalanceNodeResponse, error) {
	totals, err := account.Totals()
	if err != nil {
		return nil, err
	}

	node := &BalanceNodeResponse{
		Name:    account.Name(),
		Account: account.Path(),
		Depth:   account.Depth(),
		Balance: map[string]decimal.Decimal{},
		Display: []string{},
	}
	for _, a := range totals.Amounts() {
		sym := string(a.Commodity())
		node.Balance[sym] = a.Quantity()
		node.Display = append(node.Display, a.String())
		commodities[sym] = true
	}

	for _, child := range account.Children() {
		childNode, err := balanceNode(child, commodities)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

func parseDateParam(value string) (*ast.Date, error) {
	if value == "" {
		return nil, nil
	}
	return ast.NewDate(strings.ReplaceAll(value, "-", "/"))
}
