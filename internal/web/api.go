package web

import (
	"net/http"
	"strconv"

	"vpn-subpage/internal/stories/subs"

	"github.com/go-faster/jx"
	"github.com/gorilla/mux"
)

const apiErrorMessage = "Unexpected error occurred, please contact support"

// apiSubscription serves the latest subscription of a user in the shape the
// page fetch expects.
func (h *Handler) apiSubscription(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	overview, err := h.api.Overview(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load subscription overview",
			"user_id", userID,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, encodeAPIError(apiErrorMessage, http.StatusInternalServerError))
		return
	}
	if overview == nil {
		writeJSON(w, http.StatusNotFound, encodeAPIError("", http.StatusNotFound))
		return
	}

	writeJSON(w, http.StatusOK, encodeOverview(overview))
}

func encodeOverview(o *subs.Overview) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("userId")
	e.Str(o.TelegramID)
	e.FieldStart("username")
	e.Str(o.Username)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("expiresAt")
	if o.ExpiresAt.IsZero() {
		e.Null()
	} else {
		e.Str(o.ExpiresAt.Format("02.01.2006"))
	}
	e.FieldStart("daysLeft")
	e.Int(o.DaysLeft)
	e.FieldStart("trafficUsed")
	e.Num(fixed(o.TrafficUsed, 2))
	e.FieldStart("trafficLimit")
	e.Num(fixed(o.TrafficLimit, 2))
	e.FieldStart("trafficPercent")
	e.Num(fixed(o.TrafficPercent, 1))
	e.ObjEnd()
	return e.Bytes()
}

func encodeAPIError(message string, status int) []byte {
	var e jx.Encoder
	e.ObjStart()
	if message != "" {
		e.FieldStart("error")
		e.Str(message)
	}
	e.FieldStart("status")
	e.Int(status)
	e.ObjEnd()
	return e.Bytes()
}

// fixed prints v with exactly prec decimals.
func fixed(v float64, prec int) jx.Num {
	return jx.Num(strconv.FormatFloat(v, 'f', prec, 64))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	writeBody(w, status, "application/json", body)
}
