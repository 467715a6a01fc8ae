package controllers

import (
	"context"
	"net/http"

	"github.com/davidepagano/storeops-backend/api/responses"
	"github.com/davidepagano/storeops-backend/api/validators"
	"github.com/davidepagano/storeops-backend/internal/revenue"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
	"github.com/davidepagano/storeops-backend/pkg/logger"
)

type aggregationRunner interface {
	Run(ctx context.Context, dateInput *string) (*revenue.Report, error)
}

type aggregateRequest struct {
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AggregateDailyStoreRevenue runs the aggregation pass on demand. The body
// is optional; without a date the job aggregates yesterday.
func AggregateDailyStoreRevenue(runner aggregationRunner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "aggregation job not configured"))
			return
		}

		var req aggregateRequest
		if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := runner.Run(r.Context(), req.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, report)
	}
}
