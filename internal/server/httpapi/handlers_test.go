package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medledger/gateway/internal/common"
	"github.com/medledger/gateway/internal/logging"
	"github.com/medledger/gateway/internal/server/patients"
)

// ---- fakes ----

type fakePatients struct {
	accountsResp []string
	accountsErr  error

	registerResp *patients.Receipt
	registerErr  error
	registerReg  *patients.Registration

	tempResp   *patients.Receipt
	tempErr    error
	tempDeg    float64
	tempCalled bool

	getResp *patients.Record
	getErr  error

	updateResp *patients.Receipt
	updateErr  error

	listResp []*patients.Record
	listErr  error

	searchResp   *patients.Record
	searchErr    error
	searchCalled bool
}

func (f *fakePatients) Accounts(ctx context.Context) ([]string, error) {
	return f.accountsResp, f.accountsErr
}

func (f *fakePatients) Register(ctx context.Context, address string, reg patients.Registration) (*patients.Receipt, error) {
	f.registerReg = &reg
	return f.registerResp, f.registerErr
}

func (f *fakePatients) RecordTemperature(ctx context.Context, address string, degrees float64) (*patients.Receipt, error) {
	f.tempCalled = true
	f.tempDeg = degrees
	return f.tempResp, f.tempErr
}

func (f *fakePatients) Get(ctx context.Context, address string) (*patients.Record, error) {
	return f.getResp, f.getErr
}

func (f *fakePatients) Update(ctx context.Context, address string, reg patients.Registration) (*patients.Receipt, error) {
	return f.updateResp, f.updateErr
}

func (f *fakePatients) List(ctx context.Context) ([]*patients.Record, error) {
	return f.listResp, f.listErr
}

func (f *fakePatients) Search(ctx context.Context, name, folder string) (*patients.Record, error) {
	f.searchCalled = true
	return f.searchResp, f.searchErr
}

// ---- helpers ----

func doRequest(t *testing.T, f *fakePatients, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	srv := NewServer(":0", logging.NopLogger{}, f)
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

// ---- tests ----

func TestAccounts_OK(t *testing.T) {
	f := &fakePatients{accountsResp: []string{"0xaa", "0xbb"}}

	rec, body := doRequest(t, f, http.MethodGet, "/api/accounts", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{"0xaa", "0xbb"}, body["accounts"])
}

func TestAccounts_LedgerFailure(t *testing.T) {
	f := &fakePatients{accountsErr: errors.New("connection refused")}

	rec, body := doRequest(t, f, http.MethodGet, "/api/accounts", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "connection refused")
}

func TestRegister_MissingFields(t *testing.T) {
	f := &fakePatients{}

	rec, body := doRequest(t, f, http.MethodPost, "/api/patients", map[string]any{
		"address": "0x1111111111111111111111111111111111111111",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Name and address are required", body["error"])
	assert.Nil(t, f.registerReg, "service must not be called")
}

func TestRegister_OK_EchoesNormalizedPatientData(t *testing.T) {
	f := &fakePatients{registerResp: &patients.Receipt{TxHash: "0xtx", Address: "0xAA"}}

	rec, body := doRequest(t, f, http.MethodPost, "/api/patients", map[string]any{
		"name":    "Jane",
		"address": "0x1111111111111111111111111111111111111111",
		"age":     30,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "0xtx", body["transaction"])
	assert.Equal(t, "0xAA", body["patientAddress"])

	data, ok := body["patientData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", data["name"])
	assert.Equal(t, float64(30), data["age"])
	// omitted optional fields come back as their defaults
	assert.Equal(t, "", data["medicalFolder"])
	assert.Equal(t, "", data["gender"])
}

func TestRegister_UnknownIdentityListsAccounts(t *testing.T) {
	f := &fakePatients{registerErr: &common.UnknownIdentityError{
		Address: "0xCC",
		Known:   []string{"0xAA", "0xBB"},
	}}

	rec, body := doRequest(t, f, http.MethodPost, "/api/patients", map[string]any{
		"name":    "Jane",
		"address": "0xcccccccccccccccccccccccccccccccccccccccc",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{"0xAA", "0xBB"}, body["availableAccounts"])
}

func TestRecordTemperature_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"missing address", map[string]any{"temperature": 37.4}, "Address is required"},
		{"non-numeric temperature", map[string]any{"temperature": "warm", "address": "0xaa"}, ""},
		{"missing temperature", map[string]any{"address": "0xaa"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakePatients{}
			rec, body := doRequest(t, f, http.MethodPost, "/api/temperature", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			}
			assert.False(t, f.tempCalled, "service must not be called")
		})
	}
}

func TestRecordTemperature_OK(t *testing.T) {
	f := &fakePatients{tempResp: &patients.Receipt{TxHash: "0xtx", Address: "0xAA"}}

	rec, body := doRequest(t, f, http.MethodPost, "/api/temperature", map[string]any{
		"temperature": "37.4",
		"address":     "0x1111111111111111111111111111111111111111",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "0xtx", body["transaction"])
	assert.Equal(t, 37.4, f.tempDeg, "string temperatures are parsed to degrees")
}

func TestGetPatient_InvalidAddress(t *testing.T) {
	f := &fakePatients{getErr: common.ErrorInvalidAddress}

	rec, body := doRequest(t, f, http.MethodGet, "/api/patients/0x1234", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ledger address format", body["error"])
}

func TestGetPatient_NotRegisteredIs404(t *testing.T) {
	f := &fakePatients{getErr: common.ErrorNotFound}

	rec, body := doRequest(t, f, http.MethodGet, "/api/patients/0x1111111111111111111111111111111111111111", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Patient not registered", body["error"])
}

func TestGetPatient_OK(t *testing.T) {
	f := &fakePatients{getResp: &patients.Record{
		Address:      "0xAA",
		Name:         "Jane",
		Temperatures: []float64{37.4},
		Timestamps:   []int64{1700000001},
	}}

	rec, body := doRequest(t, f, http.MethodGet, "/api/patients/0x1111111111111111111111111111111111111111", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", data["name"])
	assert.Equal(t, []any{37.4}, data["temperatures"])
}

func TestUpdatePatient_OK(t *testing.T) {
	f := &fakePatients{updateResp: &patients.Receipt{TxHash: "0xtx", Address: "0xAA"}}

	rec, body := doRequest(t, f, http.MethodPut, "/api/patients/0x1111111111111111111111111111111111111111", map[string]any{
		"name": "Jane Doe",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "0xtx", body["transaction"])
	assert.Equal(t, "0xAA", body["patientAddress"])
}

func TestListPatients_FailureIs500(t *testing.T) {
	f := &fakePatients{listErr: errors.New("node unreachable")}

	rec, body := doRequest(t, f, http.MethodGet, "/api/patients", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error getting all patients", body["error"])
}

func TestListPatients_OK(t *testing.T) {
	f := &fakePatients{listResp: []*patients.Record{
		{Address: "0xAA", Name: "Jane", Temperatures: []float64{}, Timestamps: []int64{}},
		{Address: "0xBB", Name: "John", Temperatures: []float64{}, Timestamps: []int64{}},
	}}

	rec, body := doRequest(t, f, http.MethodGet, "/api/patients", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestSearch_MissingName(t *testing.T) {
	f := &fakePatients{}

	rec, body := doRequest(t, f, http.MethodGet, "/api/search?folderNumber=F1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required for search", body["error"])
	assert.False(t, f.searchCalled, "service must not be called")
}

func TestSearch_MissIs404(t *testing.T) {
	f := &fakePatients{searchErr: common.ErrorNotFound}

	rec, body := doRequest(t, f, http.MethodGet, "/api/search?name=Nobody", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", body["error"])
}

func TestSearch_OK(t *testing.T) {
	f := &fakePatients{searchResp: &patients.Record{
		Name:          "Jane",
		MedicalFolder: "F1",
		Temperatures:  []float64{},
		Timestamps:    []int64{},
	}}

	rec, body := doRequest(t, f, http.MethodGet, "/api/search?name=Jane&folderNumber=F1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", data["name"])
	assert.Equal(t, "F1", data["medicalFolder"])
}
