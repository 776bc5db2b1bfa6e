package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cleared-dev/ledger/internal/ledger"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
	"github.com/cleared-dev/ledger/internal/trialbalance"
)

func parseFilter(r *http.Request) (period.Filter, error) {
	q := r.URL.Query()
	return period.New(q.Get("period"), q.Get("start"), q.Get("end"))
}

func parseType(r *http.Request) (model.AccountType, error) {
	t := model.AccountType(r.URL.Query().Get("type"))
	if t == "" || t == "all" || t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown account type %q", t)
}

func parseBool(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return b, nil
}

// generalLedger handles GET /api/ledger.
func (s *Server) generalLedger(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	typ, err := parseType(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	active, err := parseBool(r, "active")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	tree, entries := s.svc.Books()
	view := ledger.View(tree, entries, filter, ledger.Options{
		OnlyWithTransactions: active,
		Type:                 typ,
		Search:               r.URL.Query().Get("q"),
	})
	if view == nil {
		view = []*ledger.AccountLedger{}
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="general-ledger.csv"`)
		if err := ledger.WriteCSV(w, view, s.money.Format); err != nil {
			s.logger.Error("writing ledger csv failed", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": filter.String(), "accounts": view})
}

// trialBalance handles GET /api/trial-balance.
func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	typ, err := parseType(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	active, err := parseBool(r, "active")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	tree, entries := s.svc.Books()
	report := trialbalance.Aggregate(tree, entries, filter, trialbalance.Options{
		OnlyWithActivity: active,
		Type:             typ,
		Search:           r.URL.Query().Get("q"),
	})

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trial-balance.csv"`)
		if err := trialbalance.WriteCSV(w, report, s.money.Format); err != nil {
			s.logger.Error("writing trial balance csv failed", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SummaryResponse is the dashboard summary with display strings.
type SummaryResponse struct {
	trialbalance.Summary
	Formatted map[string]string `json:"formatted"`
}

// getSummary handles GET /api/summary.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	tree, entries := s.svc.Books()
	sum := trialbalance.Summarize(tree, entries, filter)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Summary: sum,
		Formatted: map[string]string{
			"total_revenue":  s.summary.Format(sum.TotalRevenue),
			"total_expenses": s.summary.Format(sum.TotalExpenses),
			"net_profit":     s.summary.Format(sum.NetProfit),
			"profit_margin":  sum.ProfitMargin.StringFixed(1) + "%",
		},
	})
}

// health handles GET /api/health. An unbalanced ledger answers 503.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	tree, entries := s.svc.Books()
	v := trialbalance.Check(tree, entries)
	status := http.StatusOK
	if !v.IsBalanced {
		s.logger.Warn("trial balance is unbalanced",
			"debit_balance", v.DebitBalance.String(),
			"credit_balance", v.CreditBalance.String(),
			"difference", v.Difference.String(),
		)
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, v)
}
