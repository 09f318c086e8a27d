package web

import (
	"net/http"
	"strings"
)

// AccountInfo represents basic information about a ledger account.
type AccountInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Depth  int    `json:"depth"`
	Parent string `json:"parent,omitempty"`
	Type   string `json:"type"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts returns every account of the ledger sorted by path,
// including parents that only exist through their sub-accounts. The type
// is the top-level segment, e.g. "Assets".
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.ledger.Accounts()
	accounts := make([]AccountInfo, 0, len(all))

	for _, account := range all {
		info := AccountInfo{
			Name:  account.Name(),
			Path:  account.Path(),
			Depth: account.Depth(),
			Type:  strings.SplitN(account.Path(), ":", 2)[0],
		}
		if parent, ok := account.Parent(); ok {
			info.Parent = parent.Path()
		}
		accounts = append(accounts, info)
	}

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}
