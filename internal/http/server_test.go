package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kotsuhi/internal/directory"
	"kotsuhi/internal/ledger/cached"
	"kotsuhi/internal/ledger/file"
	"kotsuhi/internal/services"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	peoplePath := filepath.Join(dir, "people.txt")
	if err := os.WriteFile(peoplePath, []byte("A:0000\nB:0000\n"), 0o644); err != nil {
		t.Fatalf("write people file: %v", err)
	}
	people, err := directory.Load(peoplePath)
	if err != nil {
		t.Fatalf("load directory: %v", err)
	}

	backend := file.New(filepath.Join(dir, "expenses.csv"), filepath.Join(dir, "config.txt"))
	svc := services.NewLedgerService(cached.New(backend, time.Minute), nil, nil)

	return NewServer(":0", svc, people, "admin-secret", nil).Handler
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAppendListDeleteFlow(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h, http.MethodPost, "/api/records", appendRequest{
		Person: "A", Secret: "0000", Date: "2024-05-01", Route: "office-site",
		Distance: "10.5km", Toll: "0",
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("append status = %d, body %s", rr.Code, rr.Body)
	}
	var created recordView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Total != 157 || created.DistanceKm != "10.5" {
		t.Fatalf("unexpected created record: %+v", created)
	}

	// Read-after-write: the list reflects the append immediately.
	rr = doJSON(t, h, http.MethodGet, "/api/records?person=A&month=2024-05&secret=0000", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rr.Code, rr.Body)
	}
	var list listResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Records) != 1 || list.Total != 157 || list.DistanceKm != "10.5" {
		t.Fatalf("unexpected list: %+v", list)
	}

	rr = doJSON(t, h, http.MethodPost, "/api/records/delete", deleteRequest{
		Person: "A", Secret: "0000", Date: "2024-05-01", Total: "157",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rr.Code, rr.Body)
	}

	// Deleting the same key again surfaces "could not identify record".
	rr = doJSON(t, h, http.MethodPost, "/api/records/delete", deleteRequest{
		Person: "A", Secret: "0000", Date: "2024-05-01", Total: "157",
	}, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, body %s", rr.Code, rr.Body)
	}
}

func TestSharedSecretGate(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h, http.MethodPost, "/api/records", appendRequest{
		Person: "A", Secret: "wrong", Date: "2024-05-01", Distance: "10",
	}, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("wrong secret status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/records?person=Z&month=2024-05&secret=0000", nil, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unknown person status = %d", rr.Code)
	}
}

func TestRejectsEmptyRecord(t *testing.T) {
	h := newTestHandler(t)
	rr := doJSON(t, h, http.MethodPost, "/api/records", appendRequest{
		Person: "A", Secret: "0000", Date: "2024-05-01", Distance: "abc", Toll: "",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
}

func TestRateEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h, http.MethodGet, "/api/rate", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get rate status = %d", rr.Code)
	}
	var rate map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &rate); err != nil {
		t.Fatal(err)
	}
	if rate["fuel_rate"] != "15" {
		t.Fatalf("default rate = %q", rate["fuel_rate"])
	}

	// Admin gate.
	rr = doJSON(t, h, http.MethodPut, "/api/rate", rateRequest{FuelRate: "17.5"}, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("missing admin secret status = %d", rr.Code)
	}
	rr = doJSON(t, h, http.MethodPut, "/api/rate", rateRequest{FuelRate: "17.5"},
		map[string]string{"X-Admin-Secret": "admin-secret"})
	if rr.Code != http.StatusOK {
		t.Fatalf("set rate status = %d, body %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/rate", nil, nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &rate); err != nil {
		t.Fatal(err)
	}
	if rate["fuel_rate"] != "17.5" {
		t.Fatalf("rate after update = %q", rate["fuel_rate"])
	}
}

func TestMonthSummary(t *testing.T) {
	h := newTestHandler(t)

	for _, req := range []appendRequest{
		{Person: "A", Secret: "0000", Date: "2024-05-01", Distance: "10", Toll: "0"},
		{Person: "B", Secret: "0000", Date: "2024-05-02", Distance: "0", Toll: "500"},
	} {
		if rr := doJSON(t, h, http.MethodPost, "/api/records", req, nil); rr.Code != http.StatusCreated {
			t.Fatalf("append status = %d, body %s", rr.Code, rr.Body)
		}
	}

	rr := doJSON(t, h, http.MethodGet, "/api/summary?month=2024-05", nil,
		map[string]string{"X-Admin-Secret": "admin-secret"})
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rr.Code, rr.Body)
	}
	var sum summaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Total != 650 || sum.ByPerson["A"] != 150 || sum.ByPerson["B"] != 500 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/months", nil, nil)
	var months map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &months); err != nil {
		t.Fatal(err)
	}
	if len(months["months"]) != 1 || months["months"][0] != "2024-05" {
		t.Fatalf("unexpected months: %v", months)
	}
}
