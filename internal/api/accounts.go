package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/ledger"
	"github.com/cleared-dev/ledger/internal/model"
)

// FlatAccount is an account with its depth in the chart.
type FlatAccount struct {
	ID      string            `json:"id"`
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Type    model.AccountType `json:"type"`
	Balance decimal.Decimal   `json:"balance"`
	Level   int               `json:"level"`
}

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	Type           model.AccountType `json:"type"`
	ParentID       string            `json:"parent_id"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	Description    string            `json:"description"`
}

// listAccounts handles GET /api/accounts.
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	tree, _ := s.svc.Snapshot()
	if tree == nil {
		tree = []*model.Account{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": tree})
}

// listAccountsFlat handles GET /api/accounts/flat.
func (s *Server) listAccountsFlat(w http.ResponseWriter, r *http.Request) {
	tree, _ := s.svc.Snapshot()
	nodes := accounts.Flatten(tree)
	out := make([]FlatAccount, len(nodes))
	for i, n := range nodes {
		out[i] = FlatAccount{
			ID:      n.Account.ID,
			Code:    n.Account.Code,
			Name:    n.Account.Name,
			Type:    n.Account.Type,
			Balance: n.Account.Balance,
			Level:   n.Level,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

// createAccount handles POST /api/accounts.
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	acct, err := s.svc.AddAccount(accounts.NewAccount{
		Code:           req.Code,
		Name:           req.Name,
		Type:           req.Type,
		ParentID:       req.ParentID,
		OpeningBalance: req.OpeningBalance,
		Description:    req.Description,
	})
	switch {
	case errors.Is(err, accounts.ErrDuplicateCode):
		writeJSONError(w, http.StatusConflict, "duplicate_code", err.Error())
		return
	case errors.Is(err, accounts.ErrParentNotFound), errors.Is(err, accounts.ErrInvalidAccount):
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	case err != nil:
		s.logger.Error("adding account failed", "code", req.Code, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to add account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"account": acct})
}

// statement handles GET /api/accounts/{id}/statement.
func (s *Server) statement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := ledger.StatementOptions{Search: q.Get("q")}
	if t := q.Get("type"); t != "" && t != "all" {
		opts.Type = model.LineType(strings.ToLower(t))
		if !opts.Type.Valid() {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "type must be debit, credit or all")
			return
		}
	}

	tree, entries := s.svc.Books()
	st, ok := ledger.AccountStatement(tree, entries, chi.URLParam(r, "id"), opts)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
