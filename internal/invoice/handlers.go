package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const maxUploadSize = int64(20 << 20) // 20MB

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// jsonError writes {"error": message} with the given status
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// notFoundOr returns 404 for missing invoices and fallback otherwise
func notFoundOr(err error, fallback int) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return fallback
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleListInvoices returns all invoices, or those matching a from/to or month/year filter
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		invoices []*Invoice
		err      error
	)
	switch {
	case q.Get("from") != "" && q.Get("to") != "":
		from, fromErr := time.Parse(time.DateOnly, q.Get("from"))
		to, toErr := time.Parse(time.DateOnly, q.Get("to"))
		if fromErr != nil || toErr != nil {
			corsError(w, "from and to must be dates formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		invoices, err = s.service.GetInvoicesBySettlementDateBetween(from, to)
		if err != nil {
			corsError(w, err.Error(), http.StatusBadRequest)
			return
		}
	case q.Get("month") != "" && q.Get("year") != "":
		month, monthErr := strconv.Atoi(q.Get("month"))
		year, yearErr := strconv.Atoi(q.Get("year"))
		if monthErr != nil || yearErr != nil {
			corsError(w, "month and year must be numbers", http.StatusBadRequest)
			return
		}
		invoices, err = s.service.GetInvoicesForMonth(year, month)
		if err != nil {
			corsError(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		invoices, err = s.service.ListInvoices()
		if err != nil {
			slog.Error("Error listing invoices", "error", err)
			corsError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	// Ensure we always return an array, not nil
	if invoices == nil {
		invoices = []*Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

// handleScanInvoice parses an uploaded PDF and returns the unsaved invoice
func (s *Server) handleScanInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorMsg = "File is too large. Maximum size is 20MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a PDF invoice to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if strings.ToLower(filepath.Ext(header.Filename)) == ".pdf" {
			contentType = "application/pdf"
		}
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	inv, err := s.service.ScanInvoice(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error scanning invoice", "filename", header.Filename, "error", err)
		code := http.StatusBadRequest
		if errors.Is(err, ErrUnprocessable) {
			code = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleCreateInvoice saves an invoice sent as JSON
func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.service.CreateInvoice(&inv); err != nil {
		slog.Error("Error creating invoice", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, &inv)
}

// handleGetInvoice returns a single invoice
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inv, err := s.service.GetInvoice(id)
	if err != nil {
		corsError(w, "Invoice not found", notFoundOr(err, http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleEditInvoice replaces an invoice
func (s *Server) handleEditInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := s.service.EditInvoice(id, &inv)
	if err != nil {
		slog.Error("Error editing invoice", "id", id, "error", err)
		code := notFoundOr(err, http.StatusInternalServerError)
		if errors.Is(err, ErrIDMismatch) {
			code = http.StatusBadRequest
		}
		jsonError(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteInvoice deletes an invoice and returns it
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inv, err := s.service.RemoveInvoice(id)
	if err != nil {
		slog.Error("Error deleting invoice", "id", id, "error", err)
		corsError(w, "Error deleting invoice", notFoundOr(err, http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleGetInvoiceFile returns the source document of an invoice
func (s *Server) handleGetInvoiceFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, contentType, err := s.service.GetInvoiceFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
