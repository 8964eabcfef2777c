package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/grantsql/internal/grant"
	"github.com/MrJamesThe3rd/grantsql/internal/importer"
	"github.com/MrJamesThe3rd/grantsql/internal/sheet"
	"github.com/MrJamesThe3rd/grantsql/internal/sqlout"
)

type Handler struct {
	importSvc *importer.Service
	sink      importer.Sink
}

// NewHandler serves uploads through importSvc. sink receives committed
// imports; with a nil sink the endpoint only previews.
func NewHandler(importSvc *importer.Service, sink importer.Sink) *Handler {
	return &Handler{
		importSvc: importSvc,
		sink:      sink,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importSheet)
}

type originalDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Date     string `json:"date"`
	Basis    string `json:"basis"`
}

type donationDTO struct {
	Line              int          `json:"line"`
	Donor             string       `json:"donor"`
	Donee             string       `json:"donee"`
	Amount            string       `json:"amount"`
	DonationDate      string       `json:"donation_date"`
	DatePrecision     string       `json:"donation_date_precision"`
	DateBasis         string       `json:"donation_date_basis"`
	CauseArea         string       `json:"cause_area"`
	URL               string       `json:"url"`
	DonorCauseAreaURL string       `json:"donor_cause_area_url"`
	Notes             string       `json:"notes"`
	AffectedCountries string       `json:"affected_countries"`
	AffectedRegions   string       `json:"affected_regions"`
	Original          *originalDTO `json:"original_currency,omitempty"`
}

type bucketDTO struct {
	Currency  string        `json:"currency"`
	Converted bool          `json:"converted"`
	Donations []donationDTO `json:"donations"`
}

type importResponse struct {
	RunID     uuid.UUID   `json:"run_id"`
	Rows      int         `json:"rows"`
	Donations int         `json:"donations"`
	Committed bool        `json:"committed"`
	Buckets   []bucketDTO `json:"buckets"`
}

type errorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
	Donee string `json:"donee,omitempty"`
}

func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = "sql"
	}

	if format != "sql" && format != "json" {
		http.Error(w, "format must be sql or json", http.StatusBadRequest)
		return
	}

	commit := r.FormValue("commit") == "true"
	if commit && h.sink == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tbl, err := sheet.Read(file, header.Filename, r.FormValue("sheet"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.importSvc.Run(r.Context(), tbl)
	if err != nil {
		writeRunError(w, err)
		return
	}

	if commit && len(res.Buckets) > 0 {
		if err := h.sink.Write(r.Context(), res.Buckets); err != nil {
			slog.Error("failed to store donations", "run_id", res.RunID, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}
	}

	if format == "sql" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Run-Id", res.RunID.String())

		if err := sqlout.NewPrinter(w).Write(r.Context(), res.Buckets); err != nil {
			slog.Error("failed to write statements", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(res, commit)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeRunError reports a failed run. Row failures name the line so the
// spreadsheet can be fixed; a failed rate lookup is the rates API's fault,
// not the sheet's.
func writeRunError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var rowErr *grant.RowError
	if errors.As(err, &rowErr) {
		resp.Line = rowErr.Line
		resp.Donee = rowErr.Donee
	}

	status := http.StatusUnprocessableEntity

	var rateErr *grant.RateLookupError
	if errors.As(err, &rateErr) {
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(res *importer.Result, committed bool) importResponse {
	resp := importResponse{
		RunID:     res.RunID,
		Rows:      res.Rows,
		Donations: res.Donations(),
		Committed: committed,
		Buckets:   make([]bucketDTO, 0, len(res.Buckets)),
	}

	for _, b := range res.Buckets {
		dto := bucketDTO{
			Currency:  b.Currency,
			Converted: b.Converted,
			Donations: make([]donationDTO, 0, len(b.Donations)),
		}

		for _, d := range b.Donations {
			dto.Donations = append(dto.Donations, toDonationDTO(d))
		}

		resp.Buckets = append(resp.Buckets, dto)
	}

	return resp
}

func toDonationDTO(d grant.Donation) donationDTO {
	dto := donationDTO{
		Line:              d.Line,
		Donor:             d.Donor,
		Donee:             d.Donee,
		Amount:            d.Amount.StringFixed(2),
		DonationDate:      d.Date.Format(time.DateOnly),
		DatePrecision:     d.DatePrecision,
		DateBasis:         d.DateBasis,
		CauseArea:         d.CauseArea,
		URL:               d.URL,
		DonorCauseAreaURL: d.DonorCauseAreaURL,
		Notes:             d.Notes,
		AffectedCountries: d.AffectedCountries,
		AffectedRegions:   d.AffectedRegions,
	}

	if o := d.Original; o != nil {
		dto.Original = &originalDTO{
			Amount:   o.Amount.StringFixed(2),
			Currency: o.Currency,
			Date:     o.Date.Format(time.DateOnly),
			Basis:    o.Basis,
		}
	}

	return dto
}
