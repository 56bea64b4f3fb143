package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/storage"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
	"github.com/eugenenazirov/paper-carbon/internal/view"
)

// SessionCookie carries the id of the browser's tracker session.
const SessionCookie = "tracker_session"

// Form actions accepted by POST /.
const (
	actionCalculate = "calculate"
	actionDismiss   = "dismiss"
	actionMode      = "mode"
)

var errUnknownAction = errors.New("unknown form action")

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var state tracker.State
	id, err := h.storage.With(sessionID(r), func(tr *tracker.Tracker) {
		state = tr.State()
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	setSessionCookie(w, id)
	h.render(w, r, view.Build(state, h.assets))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse form")
		return
	}

	var (
		state     tracker.State
		playSound bool
		submitErr error
	)
	id, err := h.storage.With(sessionID(r), func(tr *tracker.Tracker) {
		form, err := mergeForm(tr.Form(), r.PostForm)
		if err == nil {
			err = tr.Apply(form)
		}
		if err != nil {
			submitErr = err
			return
		}

		switch action := r.PostForm.Get("action"); action {
		case actionCalculate, "":
			playSound = tr.Calculate().Cue
		case actionDismiss:
			tr.Dismiss()
		case actionMode:
			tr.ToggleMode()
		default:
			submitErr = fmt.Errorf("%w: %q", errUnknownAction, action)
			return
		}
		state = tr.State()
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	setSessionCookie(w, id)

	if submitErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid form", submitErr.Error(), suggestionFor(submitErr))
		return
	}

	page := view.Build(state, h.assets)
	page.PlaySound = playSound
	h.render(w, r, page)
}

// mergeForm overlays the submitted fields on the current form. Absent fields
// keep their current value.
func mergeForm(current tracker.Form, values url.Values) (tracker.Form, error) {
	form := current
	if values.Has("size") {
		form.Size = calculator.PaperSize(values.Get("size"))
	}
	if values.Has("gsm") {
		gsm, err := calculator.ParseGSM(values.Get("gsm"))
		if err != nil {
			return current, err
		}
		form.GSM = gsm
	}
	if values.Has("sheets") {
		form.SheetText = values.Get("sheets")
	}
	if values.Has("mode") {
		form.Mode = tracker.Mode(values.Get("mode"))
	}
	return form, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page view.Page) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "index.html", page); err != nil {
		h.logger.Error("render page failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrTooManySessions) {
		writeError(w, http.StatusServiceUnavailable, "Service busy", err.Error(), "Retry in a few minutes")
		return
	}
	writeInternalError(w, err)
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
