package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/paper-carbon/internal/badges"
	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/storage"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
	"github.com/eugenenazirov/paper-carbon/internal/view"
	"github.com/eugenenazirov/paper-carbon/web"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the session store and the tracker into HTTP handlers.
type Handler struct {
	storage     storage.Storage
	table       badges.Table
	assets      view.Assets
	defaultMode tracker.Mode
	pages       *template.Template

	clock  func() time.Time
	logger *zap.Logger
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithBadges sets the tier table used by the stateless JSON API.
func WithBadges(table badges.Table) HandlerOption {
	return func(h *Handler) {
		h.table = table
	}
}

// WithAssets sets the image and sound referenced by rendered pages.
func WithAssets(assets view.Assets) HandlerOption {
	return func(h *Handler) {
		h.assets = assets
	}
}

// WithDefaultMode sets the mode used when a JSON request omits one.
func WithDefaultMode(mode tracker.Mode) HandlerOption {
	return func(h *Handler) {
		h.defaultMode = mode
	}
}

// WithLogger sets the logger used for rendering failures.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler backed by store.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:     store,
		table:       badges.Default(),
		assets:      view.Assets{ImageURL: view.DefaultImageURL},
		defaultMode: tracker.ModeKids,
		pages:       web.Templates(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	_ = r
	sizes := calculator.PaperSizes()
	resp := optionsResponse{
		PaperSizes:  make([]paperSizePayload, 0, len(sizes)),
		GSM:         make([]int, 0, len(calculator.GSMOptions())),
		Badges:      h.table.Tiers(),
		Modes:       make([]string, 0, len(tracker.Modes())),
		DefaultMode: string(h.defaultMode),
	}
	for _, size := range sizes {
		factor, _ := calculator.AreaFactor(size)
		resp.PaperSizes = append(resp.PaperSizes, paperSizePayload{Size: string(size), AreaFactor: factor})
	}
	for _, gsm := range calculator.GSMOptions() {
		resp.GSM = append(resp.GSM, int(gsm))
	}
	for _, mode := range tracker.Modes() {
		resp.Modes = append(resp.Modes, string(mode))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	form, err := h.formFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), suggestionFor(err))
		return
	}

	tr := tracker.New(tracker.WithBadges(h.table), tracker.WithLogger(h.logger))
	if err := tr.Apply(form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), suggestionFor(err))
		return
	}
	outcome := tr.Calculate()
	page := view.Build(tr.State(), h.assets)

	resp := calculateResponse{
		Mode: string(form.Mode),
		Cue:  outcome.Cue,
	}
	if page.Result != nil {
		resp.Result = &resultPayload{
			PerSheetWeightGrams: page.Result.WeightGrams,
			CO2SavedKg:          page.Result.CO2Kg,
			WeightText:          page.Result.WeightText,
			CO2Text:             page.Result.CO2Text,
			SavedLine:           page.Result.SavedLine,
			WeightLine:          page.Result.WeightLine,
		}
		resp.Impact = page.Result.Impact
	}
	if outcome.Earned != nil {
		resp.Badge = &badgePayload{
			Name:        outcome.Earned.Name,
			Emoji:       outcome.Earned.Emoji,
			ThresholdKg: outcome.Earned.ThresholdKg,
			Rank:        h.table.Rank(*outcome.Earned),
		}
		if page.Overlay != nil {
			resp.Badge.FunFact = page.Overlay.FunFact
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) formFromRequest(req calculateRequest) (tracker.Form, error) {
	form := tracker.DefaultForm()
	form.Mode = h.defaultMode
	form.SheetText = string(req.Sheets)

	if strings.TrimSpace(req.Size) != "" {
		size, err := calculator.ParsePaperSize(req.Size)
		if err != nil {
			return tracker.Form{}, err
		}
		form.Size = size
	}
	if req.GSM != 0 {
		gsm := calculator.GSM(req.GSM)
		if !gsm.Valid() {
			return tracker.Form{}, fmt.Errorf("%w: got %d", calculator.ErrUnsupportedGSM, req.GSM)
		}
		form.GSM = gsm
	}
	if strings.TrimSpace(req.Mode) != "" {
		mode, err := tracker.ParseMode(req.Mode)
		if err != nil {
			return tracker.Form{}, err
		}
		form.Mode = mode
	}
	return form, nil
}

func suggestionFor(err error) string {
	switch {
	case errors.Is(err, calculator.ErrUnknownPaperSize):
		return "Use one of the sizes listed by GET /api/options"
	case errors.Is(err, calculator.ErrUnsupportedGSM):
		return "Use one of the paper weights listed by GET /api/options"
	case errors.Is(err, tracker.ErrUnknownMode):
		return "Use kids or standard"
	default:
		return ""
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type calculateRequest struct {
	Size   string     `json:"size"`
	GSM    int        `json:"gsm"`
	Sheets sheetsText `json:"sheets"`
	Mode   string     `json:"mode"`
}

// sheetsText accepts the sheet count as a JSON string or number and keeps the
// literal text, so 100 and "100" behave alike and 1.5 yields no result.
type sheetsText string

func (s *sheetsText) UnmarshalJSON(data []byte) error {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*s = ""
	case string:
		*s = sheetsText(v)
	case json.Number:
		*s = sheetsText(v.String())
	default:
		return fmt.Errorf("sheets must be a string or a number")
	}
	return nil
}

type calculateResponse struct {
	Result *resultPayload `json:"result"`
	Impact string         `json:"impact,omitempty"`
	Badge  *badgePayload  `json:"badge"`
	Cue    bool           `json:"cue"`
	Mode   string         `json:"mode"`
}

type resultPayload struct {
	PerSheetWeightGrams float64 `json:"perSheetWeightGrams"`
	CO2SavedKg          float64 `json:"co2SavedKg"`
	WeightText          string  `json:"weightText"`
	CO2Text             string  `json:"co2Text"`
	SavedLine           string  `json:"savedLine"`
	WeightLine          string  `json:"weightLine"`
}

type badgePayload struct {
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	ThresholdKg float64 `json:"thresholdKg"`
	Rank        int     `json:"rank"`
	FunFact     string  `json:"funFact,omitempty"`
}

type paperSizePayload struct {
	Size       string  `json:"size"`
	AreaFactor float64 `json:"areaFactor"`
}

type optionsResponse struct {
	PaperSizes  []paperSizePayload `json:"paperSizes"`
	GSM         []int              `json:"gsm"`
	Badges      []badges.Tier      `json:"badges"`
	Modes       []string           `json:"modes"`
	DefaultMode string             `json:"defaultMode"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
