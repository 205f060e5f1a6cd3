package http

import (
	"errors"
	"net/http"

	"expensetracker/internal/log"
	"expensetracker/internal/services"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters, err := ParseFilters(query)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	order, err := ParseSortOrder(query)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewResponse().JSON(s.svc.List(filters, order)).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, log.OpRead)
		return
	}
	NewResponse().JSON(e).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Request body parse error",
			log.FieldError, err, log.FieldOperation, log.OpCreate)
		BadRequestError("invalid request body").Write(w)
		return
	}

	e, err := s.svc.Create(r.Context(), parser.ExpenseInput())
	if err != nil {
		s.writeError(w, r, err, log.OpCreate)
		return
	}
	NewResponse().Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+e.ID).
		JSON(e).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Request body parse error",
			log.FieldError, err, log.FieldOperation, log.OpUpdate)
		BadRequestError("invalid request body").Write(w)
		return
	}

	e, err := s.svc.Update(r.Context(), r.PathValue("id"), parser.ExpenseInput())
	if err != nil {
		s.writeError(w, r, err, log.OpUpdate)
		return
	}
	NewResponse().JSON(e).Write(w)
}

// handleDeleteExpense returns the remaining collection. Unknown ids are not
// an error.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	remaining := s.svc.Delete(r.Context(), r.PathValue("id"))
	NewResponse().JSON(remaining).Write(w)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(r.Context()); err != nil {
		s.writeError(w, r, err, log.OpClear)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.svc.Summary()).Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	export, err := s.svc.Export(filters)
	if err != nil {
		s.writeError(w, r, err, log.OpExport)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "CSV export served",
		log.FieldComponent, log.ComponentExport,
		log.FieldFilename, export.Filename,
		log.FieldCount, len(export.Expenses))
	NewResponse().
		Text("text/csv; charset=utf-8", export.Content).
		Attachment(export.Filename).
		Write(w)
}

// writeError maps service errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationErrorResponse(verr.Fields).Write(w)
	case errors.Is(err, services.ErrExpenseNotFound):
		NotFoundError("Expense not found").Write(w)
	case errors.Is(err, services.ErrNothingToExport):
		NotFoundError("No expenses to export").Write(w)
	default:
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, op, nil)
		InternalServerError("internal error").Write(w)
	}
}
