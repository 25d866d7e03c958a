package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medledger/gateway/internal/common"
	"github.com/medledger/gateway/internal/server/patients"
	"github.com/medledger/gateway/internal/server/vitals"
)

// registerRequest is the body of POST /api/patients. Address names the
// identity the record is written under; the rest are the demographic
// fields, optional except name.
type registerRequest struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	MedicalFolder      string `json:"medicalFolder"`
	PhoneNumber        string `json:"phoneNumber"`
	Email              string `json:"email"`
	Age                uint64 `json:"age"`
	Gender             string `json:"gender"`
	MedicalDescription string `json:"medicalDescription"`
}

func (req *registerRequest) registration() patients.Registration {
	return patients.Registration{
		Name:               req.Name,
		MedicalFolder:      req.MedicalFolder,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		Age:                req.Age,
		Gender:             req.Gender,
		MedicalDescription: req.MedicalDescription,
	}
}

type temperatureRequest struct {
	Temperature any    `json:"temperature"`
	Address     string `json:"address"`
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// GET /api/accounts
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.patients.Accounts(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "account enumeration failed", "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}
	writeSuccess(w, map[string]any{"accounts": accounts})
}

// POST /api/patients
func (s *Server) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.Name == "" || req.Address == "" {
		writeFailure(w, http.StatusBadRequest, "Name and address are required", nil)
		return
	}

	rcpt, err := s.patients.Register(r.Context(), req.Address, req.registration())
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "address", req.Address, "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	writeSuccess(w, map[string]any{
		"transaction":    rcpt.TxHash,
		"patientAddress": rcpt.Address,
		"patientData":    req.registration(),
	})
}

// POST /api/temperature
func (s *Server) handleRecordTemperature(w http.ResponseWriter, r *http.Request) {
	var req temperatureRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if req.Address == "" {
		writeFailure(w, http.StatusBadRequest, "Address is required", nil)
		return
	}

	degrees, err := vitals.ParseTemperature(req.Temperature)
	if err != nil {
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	rcpt, err := s.patients.RecordTemperature(r.Context(), req.Address, degrees)
	if err != nil {
		s.logger.Error(r.Context(), "temperature submission failed", "address", req.Address, "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	writeSuccess(w, map[string]any{
		"transaction":    rcpt.TxHash,
		"patientAddress": rcpt.Address,
	})
}

// GET /api/patients/{address}
func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	rec, err := s.patients.Get(r.Context(), address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFailure(w, http.StatusNotFound, "Patient not registered", nil)
			return
		}
		s.logger.Error(r.Context(), "record fetch failed", "address", address, "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	writeSuccess(w, map[string]any{"data": rec})
}

// PUT /api/patients/{address}
func (s *Server) handleUpdatePatient(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	rcpt, err := s.patients.Update(r.Context(), address, req.registration())
	if err != nil {
		s.logger.Error(r.Context(), "record update failed", "address", address, "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	writeSuccess(w, map[string]any{
		"transaction":    rcpt.TxHash,
		"patientAddress": rcpt.Address,
	})
}

// GET /api/patients
func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	records, err := s.patients.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "patient listing failed", "error", err.Error())
		writeFailure(w, http.StatusInternalServerError, "Error getting all patients", nil)
		return
	}

	writeSuccess(w, map[string]any{"data": records})
}

// GET /api/search?name=&folderNumber=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	folder := r.URL.Query().Get("folderNumber")

	if name == "" {
		writeFailure(w, http.StatusBadRequest, "Name is required for search", nil)
		return
	}

	rec, err := s.patients.Search(r.Context(), name, folder)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFailure(w, http.StatusNotFound, "Patient not found", nil)
			return
		}
		s.logger.Error(r.Context(), "search failed", "name", name, "error", err.Error())
		writeDomainError(w, err, http.StatusBadRequest)
		return
	}

	writeSuccess(w, map[string]any{"data": rec})
}
