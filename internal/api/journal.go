package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/period"
)

// LineRequest is one line of a submitted entry. AccountCode is used when
// AccountID is empty.
type LineRequest struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Type        model.LineType  `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateEntryRequest is the body of POST /api/journal-entries. When
// Template is set, Lines is ignored and Amount fills both sides.
type CreateEntryRequest struct {
	Date        string          `json:"date"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Lines       []LineRequest   `json:"lines"`
	Template    string          `json:"template"`
	Amount      decimal.Decimal `json:"amount"`
}

// listEntries handles GET /api/journal-entries.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Entries()
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"journal_entries": entries})
}

// listTemplates handles GET /api/journal-entries/templates.
func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]journal.Template, 0, len(journal.Templates))
	for _, name := range journal.TemplateNames() {
		out = append(out, journal.Templates[name])
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

// createEntry handles POST /api/journal-entries.
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	draft := journal.Draft{Reference: req.Reference, Description: req.Description}
	if req.Date != "" {
		d, err := time.Parse(period.DateFormat, req.Date)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "date must be YYYY-MM-DD")
			return
		}
		draft.Date = d
	}

	lines, err := s.requestLines(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	draft.Lines = lines
	if draft.Description == "" && req.Template != "" {
		draft.Description = journal.Templates[req.Template].Description
	}

	entry, err := s.svc.Post(draft)
	if err != nil {
		var verrs journal.ValidationErrors
		if errors.As(err, &verrs) {
			resp := ErrorResponse{Error: "validation_failed", ErrorDescription: "Journal entry rejected"}
			for _, v := range verrs {
				resp.Violations = append(resp.Violations, v.Error())
			}
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		s.logger.Error("posting entry failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to post journal entry")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"journal_entry": entry})
}

func (s *Server) requestLines(req CreateEntryRequest) ([]model.JournalLine, error) {
	if req.Template != "" {
		tpl, ok := journal.Templates[req.Template]
		if !ok {
			return nil, errors.New("unknown template " + req.Template)
		}
		return tpl.Expand(req.Amount, s.svc.ResolveCode)
	}

	lines := make([]model.JournalLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		accountID := l.AccountID
		if accountID == "" && l.AccountCode != "" {
			resolved, err := s.svc.ResolveCode(l.AccountCode)
			if err != nil {
				return nil, err
			}
			accountID = resolved
		}
		lines = append(lines, model.JournalLine{AccountID: accountID, Type: l.Type, Amount: l.Amount})
	}
	return lines, nil
}
