package fulfillment

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shopopti/fulfillment-backend/api/middleware"
	"github.com/shopopti/fulfillment-backend/api/responses"
	"github.com/shopopti/fulfillment-backend/api/validators"
	fulfillmentsvc "github.com/shopopti/fulfillment-backend/internal/fulfillment"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
)

// Actions accepted by the processor endpoint.
const (
	ActionProcessOrder   = "process_order"
	ActionRetryOrder     = "retry_order"
	ActionCancelOrder    = "cancel_order"
	ActionGetStatus      = "get_status"
	ActionProcessPending = "process_pending"
)

type actionRequest struct {
	Action  string          `json:"action"`
	Order   json.RawMessage `json:"order,omitempty"`
	OrderID string          `json:"order_id,omitempty"`

	// Dashboard clients still send the camelCase key.
	LegacyOrderID string `json:"orderId,omitempty"`
}

func (r actionRequest) orderID() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.LegacyOrderID
}

// Process dispatches the single processor endpoint by action name.
func Process(svc fulfillmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user id"))
			return
		}

		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		switch req.Action {
		case ActionProcessOrder:
			var input fulfillmentsvc.OrderInput
			if len(req.Order) == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order is required"))
				return
			}
			if err := json.Unmarshal(req.Order, &input); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order payload"))
				return
			}
			if err := validators.ValidateStruct(&input); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			result, err := svc.ProcessOrder(ctx, userID, input)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		case ActionRetryOrder:
			orderID, err := parseOrderID(req.orderID())
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			result, err := svc.RetryOrder(ctx, userID, orderID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		case ActionCancelOrder:
			orderID, err := parseOrderID(req.orderID())
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			result, err := svc.CancelOrder(ctx, userID, orderID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		case ActionGetStatus:
			orderID, err := parseOrderID(req.orderID())
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			result, err := svc.GetOrderStatus(ctx, userID, orderID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		case ActionProcessPending:
			result, err := svc.ProcessPendingBatch(ctx, userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)

		default:
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid action"))
		}
	}
}

func parseOrderID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order_id")
	}
	return orderID, nil
}
