package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"histpattern/internal/assetclass"
	"histpattern/internal/client"
	"histpattern/internal/form"
	"histpattern/internal/presenter"
	"histpattern/internal/query"
	"histpattern/internal/session"
	"histpattern/internal/suggest"
	"histpattern/pkg/model"
)

// QueryBody is the form submitted to POST /view/query. Threshold may be
// sent as a JSON string or number; absent means missing, never zero.
type QueryBody struct {
	AssetClass    model.AssetClass    `json:"asset_class"`
	Ticker        string              `json:"ticker"`
	ConditionType model.ConditionType `json:"condition_type"`
	Direction     model.Direction     `json:"direction"`
	MatchType     model.MatchType     `json:"match_type"`
	Threshold     json.RawMessage     `json:"threshold"`
	Horizons      []model.Horizon     `json:"horizons"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
}

func (b QueryBody) fields() form.Fields {
	return form.Fields{
		AssetClass:    b.AssetClass,
		Ticker:        b.Ticker,
		ConditionType: b.ConditionType,
		Direction:     b.Direction,
		MatchType:     b.MatchType,
		Threshold:     thresholdText(b.Threshold),
		Horizons:      b.Horizons,
	}
}

func thresholdText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// QueryResult is the view returned for a completed submission
type QueryResult struct {
	Submission string             `json:"submission"`
	Request    model.QueryRequest `json:"request"`
	View       presenter.View     `json:"view"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// AssetClassInfo describes one asset class and its form rules
type AssetClassInfo struct {
	ID               model.AssetClass                          `json:"id"`
	Members          []string                                  `json:"members"`
	ConditionTypes   []model.ConditionType                     `json:"condition_types"`
	DefaultCondition model.ConditionType                       `json:"default_condition"`
	Directions       map[model.ConditionType][]model.Direction `json:"directions"`
	ForcedCondition  *model.ConditionType                      `json:"forced_condition,omitempty"`
	ForcedDirection  *model.Direction                          `json:"forced_direction,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body QueryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	p, err := s.paginator(body.Page, body.PageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "page_size"})
		return
	}

	in := form.Resolve(s.registry, body.fields())
	snap, err := s.session.Submit(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResult{
		Submission: snap.ID,
		Request:    snap.Request,
		View:       presenter.BuildView(snap.Response, p),
	})
}

// handleResults re-paginates the displayed result without a network call
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	p, err := s.paginator(page, size)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "page_size"})
		return
	}

	snap := s.session.Snapshot()
	switch snap.Status {
	case session.StatusReady:
		writeJSON(w, http.StatusOK, QueryResult{
			Submission: snap.ID,
			Request:    snap.Request,
			View:       presenter.BuildView(snap.Response, p),
		})
	case session.StatusFailed:
		s.writeError(w, snap.Err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": string(snap.Status)})
	}
}

func (s *Server) paginator(page, size int) (presenter.Paginator, error) {
	p := presenter.NewPaginator()
	if s.config.Results.PageSize > 0 {
		p.PageSize = s.config.Results.PageSize
	}
	if size != 0 {
		if err := p.SetPageSize(size); err != nil {
			return p, err
		}
	}
	p.SetPage(page)
	return p, nil
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	class := model.AssetClass(r.URL.Query().Get("asset_class"))
	if class == "" {
		class = model.AssetStocks
	}
	if !assetclass.IsValid(class) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown asset class", Field: "asset_class"})
		return
	}

	if len(q) < s.config.Suggest.MinChars {
		writeJSON(w, http.StatusOK, model.SuggestResponse{Suggestions: []model.TickerSuggestion{}})
		return
	}

	list, err := s.api.Suggest(r.Context(), q)
	if err != nil {
		// suggestion failures are never surfaced
		s.logger.Warn().Err(err).Str("q", q).Msg("Suggestion lookup failed")
		list = nil
	}
	writeJSON(w, http.StatusOK, model.SuggestResponse{Suggestions: suggest.Filter(s.registry, class, list)})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))
	if ticker == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Ticker required", Field: "ticker"})
		return
	}

	view := s.session.Chart(r.Context(), ticker)
	if view.Err != nil {
		writeJSON(w, statusFor(view.Err), ErrorResponse{Error: view.Message, Kind: kindOf(view.Err)})
		return
	}
	writeJSON(w, http.StatusOK, view.Chart)
}

func (s *Server) handleAssetClasses(w http.ResponseWriter, r *http.Request) {
	out := make([]AssetClassInfo, 0, len(model.AssetClasses))
	for _, class := range model.AssetClasses {
		types := assetclass.AllowedConditionTypes(class)
		dirs := make(map[model.ConditionType][]model.Direction, len(types))
		for _, ct := range types {
			dirs[ct] = assetclass.AllowedDirections(class, ct)
		}
		rule := form.TransitionFor(class)
		out = append(out, AssetClassInfo{
			ID:               class,
			Members:          s.registry.MembersOf(class),
			ConditionTypes:   types,
			DefaultCondition: assetclass.DefaultConditionType(class),
			Directions:       dirs,
			ForcedCondition:  rule.ForceCondition,
			ForcedDirection:  rule.ForceDirection,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"asset_classes": out})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	list, err := s.api.Tickers(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleETF(w http.ResponseWriter, r *http.Request) {
	etf, err := s.api.ETFConstituents(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, etf)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "api": "ok"}
	status := http.StatusOK
	if _, err := s.api.Health(r.Context()); err != nil {
		resp["status"] = "degraded"
		resp["api"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ve *query.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Field: ve.Field, Kind: "validation"})
		return
	}
	if errors.Is(err, session.ErrSuperseded) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: "superseded"})
		return
	}

	msg := err.Error()
	if apiErr, ok := client.AsAPIError(err); ok {
		msg = apiErr.UserMessage()
	} else {
		s.logger.Error().Err(err).Msg("Unhandled error")
	}
	writeJSON(w, statusFor(err), ErrorResponse{Error: msg, Kind: kindOf(err)})
}

// statusFor maps analytics failures: service errors are a bad gateway,
// transport errors mean the service is unavailable.
func statusFor(err error) int {
	apiErr, ok := client.AsAPIError(err)
	switch {
	case !ok:
		return http.StatusInternalServerError
	case apiErr.Kind == client.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func kindOf(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		return string(apiErr.Kind)
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
