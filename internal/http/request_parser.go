package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kotsuhi/internal/core"
)

// maxBodyBytes bounds request bodies; line items are tiny.
const maxBodyBytes = 16 << 10

type appendRequest struct {
	Person   string `json:"person"`
	Secret   string `json:"secret"`
	Date     string `json:"date"`
	Route    string `json:"route"`
	Distance string `json:"distance"`
	Toll     string `json:"toll"`
}

type deleteRequest struct {
	Person string `json:"person"`
	Secret string `json:"secret"`
	Date   string `json:"date"`
	Total  string `json:"total"`
}

type rateRequest struct {
	FuelRate string `json:"fuel_rate"`
}

type recordView struct {
	Person     string `json:"person"`
	Date       string `json:"date"`
	Route      string `json:"route"`
	DistanceKm string `json:"distance_km"`
	TollFee    string `json:"toll_fee"`
	Total      int64  `json:"total"`
}

type listResponse struct {
	Records    []recordView `json:"records"`
	DistanceKm string       `json:"distance_km_sum"`
	TollFee    string       `json:"toll_fee_sum"`
	Total      int64        `json:"total_sum"`
}

type summaryResponse struct {
	Month    string           `json:"month"`
	Total    int64            `json:"total"`
	ByPerson map[string]int64 `json:"by_person"`
}

func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// personSecret reads the shared secret from the header, falling back to the
// query parameter for simple GET clients.
func personSecret(r *http.Request) string {
	if secret := r.Header.Get("X-Ledger-Secret"); secret != "" {
		return secret
	}
	return r.URL.Query().Get("secret")
}

// sanitizeInput trims whitespace and strips control characters from free
// text.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}

func toRecordView(r core.Record) recordView {
	return recordView{
		Person:     r.Person,
		Date:       r.Date.Format(),
		Route:      r.Route,
		DistanceKm: r.DistanceKm.String(),
		TollFee:    r.TollFee.String(),
		Total:      r.Total,
	}
}

func toRecordViews(records []core.Record) []recordView {
	out := make([]recordView, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordView(r))
	}
	return out
}
