package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sigpeche/internal/domain/deadlines"
	"sigpeche/internal/notify"
	"sigpeche/internal/push"
)

type CreateDeadlinePayload struct {
	UserID  int64   `json:"user_id" validate:"required,gt=0"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,gabonphone"`
	TaxType string  `json:"tax_type" validate:"required,max=100"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	DueDate string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// createDeadlineHandler godoc
//
//	@Summary	Registers a payment deadline
//	@Tags		deadlines
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateDeadlinePayload	true	"Deadline"
//	@Success	201		{object}	deadlines.PaymentDeadline
//	@Security	ApiKeyAuth
//	@Router		/deadlines [post]
func (app *application) createDeadlineHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateDeadlinePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	dueDate, err := time.Parse("2006-01-02", payload.DueDate)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	dl := &deadlines.PaymentDeadline{
		UserID:  payload.UserID,
		Email:   payload.Email,
		Phone:   payload.Phone,
		TaxType: payload.TaxType,
		Amount:  payload.Amount,
		DueDate: dueDate,
	}

	if err := app.store.Deadlines.Create(r.Context(), dl); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, dl); err != nil {
		app.internalServerError(w, r, err)
	}
}

type RemindDeadlinesResponse struct {
	Deadlines int `json:"deadlines"`
	Attempted int `json:"attempted"`
	Recorded  int `json:"recorded"`
	Failed    int `json:"failed"`
}

// remindDeadlinesHandler godoc
//
//	@Summary		Runs the deadline reminder workflow
//	@Description	Scans deadlines due within the window and fans out simulated notifications per deadline
//	@Tags			deadlines
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 30)"
//	@Success		200		{object}	RemindDeadlinesResponse
//	@Security		ApiKeyAuth
//	@Router			/deadlines/remind [post]
func (app *application) remindDeadlinesHandler(w http.ResponseWriter, r *http.Request) {
	withinDays := 30
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		withinDays = d
	}

	ctx := r.Context()

	upcoming, err := app.store.Deadlines.ListUpcoming(ctx, withinDays)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	subs, err := app.store.Subscriptions.ListActive(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := RemindDeadlinesResponse{Deadlines: len(upcoming)}

	for _, dl := range upcoming {
		event := notify.DeadlineEvent{
			ID:            strconv.FormatInt(dl.ID, 10),
			UserID:        dl.UserID,
			TaxType:       dl.TaxType,
			Amount:        dl.Amount,
			DueDate:       dl.DueDate,
			DaysRemaining: dl.DaysRemaining,
		}

		result, err := app.matcher.MatchAndRecord(ctx, event, subs)
		if err != nil {
			// One malformed deadline must not sink the whole run.
			if errors.Is(err, notify.ErrMissingEventType) {
				app.logger.Warnw("skipping deadline without tax type", "deadline_id", dl.ID)
				continue
			}
			app.internalServerError(w, r, err)
			return
		}

		resp.Attempted += result.Attempted
		resp.Recorded += result.Recorded
		resp.Failed += result.Failed

		userID := dl.UserID
		taxType := dl.TaxType
		daysRemaining := dl.DaysRemaining
		push.CallAsync(func(ctx context.Context) error {
			err := push.SendDeadlineReminder(ctx, app.push, app.store, userID, taxType, daysRemaining)
			if errors.Is(err, push.ErrNoTokens) {
				return nil
			}
			return err
		}, func(err error) {
			app.logger.Errorw("deadline push alert failed", "user_id", userID, "error", err)
		})
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
