// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/rtcast/internal/models"
	"github.com/tomtom215/rtcast/internal/validation"
)

// RowsRequest holds the query parameters shared by /estimates and
// /anomalies.
type RowsRequest struct {
	Location string `query:"location" validate:"omitempty,max=128"`
	From     string `query:"from" validate:"omitempty,isodate"`
	To       string `query:"to" validate:"omitempty,isodate"`
}

// dateRange is an inclusive date filter. Zero bounds are open.
type dateRange struct {
	from, to time.Time
}

func (d dateRange) contains(t time.Time) bool {
	if !d.from.IsZero() && t.Before(d.from) {
		return false
	}
	if !d.to.IsZero() && t.After(d.to) {
		return false
	}
	return true
}

// parseRowsRequest reads and validates the query. from after to is
// reported as a validation error on "to".
func parseRowsRequest(r *http.Request) (RowsRequest, dateRange, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := RowsRequest{
		Location: strings.TrimSpace(q.Get("location")),
		From:     strings.TrimSpace(q.Get("from")),
		To:       strings.TrimSpace(q.Get("to")),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, dateRange{}, verr
	}

	var dr dateRange
	if req.From != "" {
		dr.from, _ = time.Parse(models.DateLayout, req.From)
	}
	if req.To != "" {
		dr.to, _ = time.Parse(models.DateLayout, req.To)
	}
	if !dr.from.IsZero() && !dr.to.IsZero() && dr.to.Before(dr.from) {
		return req, dr, validation.NewFieldError("to", "gtefield", "from", "to must not be before from")
	}
	return req, dr, nil
}
