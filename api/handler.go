package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"pingplotter-roi/core/chart"
	"pingplotter-roi/core/determinism"
	"pingplotter-roi/core/downtime"
	"pingplotter-roi/core/output"
	"pingplotter-roi/core/pricing"
	"pingplotter-roi/core/roi"
	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/errors"
	"pingplotter-roi/internal/logging"
)

var contentTypes = map[output.Format]string{
	output.FormatJSON:     "application/json",
	output.FormatCLI:      "text/plain; charset=utf-8",
	output.FormatHTML:     "text/html; charset=utf-8",
	output.FormatMarkdown: "text/markdown; charset=utf-8",
	output.FormatCSV:      "text/csv; charset=utf-8",
	output.FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// handleROI handles POST /api/v1/roi
func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ROIRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, cost, err := resolve(req.Profile, req.Scenario, s.cfg.Defaults.Organization())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := s.evaluate(in, req.Pricing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, s.response(r, rep, cost, start), http.StatusOK)
}

// handleROIQuery handles GET /api/v1/roi?user_count=...&format=...
// Missing parameters fall back to the configured form defaults.
func (s *Server) handleROIQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rep, cost, err := s.reportFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || output.Format(strings.ToLower(format)) == output.FormatJSON {
		s.writeJSON(w, s.response(r, rep, cost, start), http.StatusOK)
		return
	}
	s.render(w, r, format, rep)
}

// handleReport handles GET /report, the HTML page with the input form and
// both charts
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	p, err := profileFromQuery(r.URL.Query(), s.cfg.Defaults.Organization())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, _, err := s.reportFor(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f := output.NewHTMLFormatter()
	f.Chart = s.chartOptions()
	f.Form = reportForm("/report", p)
	var buf bytes.Buffer
	if err := f.Render(&buf, rep); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.charts.Add(2)
	s.writeBody(w, r, contentTypes[output.FormatHTML], buf.Bytes())
}

// handleChart handles GET /api/v1/charts/{name}, e.g. breakeven.svg
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ext := path.Ext(name)
	format, err := chart.ParseFormat(ext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, _, err := s.reportFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := fmt.Sprintf("%q", fmt.Sprintf("%s-%s-%dx%d", determinism.Fingerprint(rep.Input, rep.Table.Schedule()),
		name, s.cfg.Chart.Width, s.cfg.Chart.Height))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderReport(&buf, rep, strings.TrimSuffix(name, ext), format, s.chartOptions()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.charts.Add(1)
	s.writeBody(w, r, format.ContentType(), buf.Bytes())
}

// handlePricing handles GET /api/v1/pricing[?traces=N]
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	resp := PricingResponse{Schedule: s.schedule}

	if raw := r.URL.Query().Get("traces"); raw != "" {
		traces, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, errors.Inputf("traces must be a whole number, got %q", raw).WithContext("field", "traces"))
			return
		}
		rate, err := s.schedule.PricePerTrace(traces)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		cost, err := s.schedule.ToolCost(traces)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Quote = &Quote{Traces: traces, CostPerTrace: rate, ToolCost: cost}
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// handleCompare handles POST /api/v1/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CompareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Scenarios) == 0 {
		s.writeError(w, r, errors.Input("scenarios must not be empty"))
		return
	}

	defaults := s.cfg.Defaults.Organization()
	scenarios := make([]roi.Scenario, len(req.Scenarios))
	for i, nr := range req.Scenarios {
		in, _, err := resolve(nr.Profile, nr.Scenario, defaults)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				err = e.WithContext("scenario", nr.Name)
			}
			s.writeError(w, r, err)
			return
		}
		name := nr.Name
		if name == "" {
			name = fmt.Sprintf("scenario-%d", i+1)
		}
		scenarios[i] = roi.Scenario{Name: name, Input: in}
	}

	schedule, err := s.scheduleFor(req.Pricing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summaries, err := roi.Compare(r.Context(), scenarios, roi.WithSchedule(schedule))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.reports.Add(int64(len(summaries)))

	s.writeJSON(w, CompareResponse{
		RequestID: requestIDFrom(r.Context()),
		Summaries: summaries,
		Metadata:  s.metadata(start, ""),
	}, http.StatusOK)
}

func (s *Server) reportFromQuery(r *http.Request) (*roi.Report, *downtime.Cost, error) {
	p, err := profileFromQuery(r.URL.Query(), s.cfg.Defaults.Organization())
	if err != nil {
		return nil, nil, err
	}
	return s.reportFor(p)
}

func (s *Server) reportFor(p types.OrganizationProfile) (*roi.Report, *downtime.Cost, error) {
	in, cost, err := resolve(&p, nil, p)
	if err != nil {
		return nil, nil, err
	}
	rep, err := s.evaluate(in, nil)
	if err != nil {
		return nil, nil, err
	}
	return rep, cost, nil
}

func (s *Server) scheduleFor(override *pricing.Schedule) (pricing.Schedule, error) {
	if override == nil {
		return s.schedule, nil
	}
	if err := override.Validate(); err != nil {
		return pricing.Schedule{}, err
	}
	return *override, nil
}

func (s *Server) evaluate(in types.ScenarioInput, override *pricing.Schedule) (*roi.Report, error) {
	schedule, err := s.scheduleFor(override)
	if err != nil {
		return nil, err
	}
	rep, err := roi.Evaluate(in, roi.WithSchedule(schedule))
	if err != nil {
		return nil, err
	}
	s.metrics.reports.Add(1)
	s.log.Debug("report built", logging.Scenario(in), zap.Int("rows", rep.Table.Len()))
	return rep, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, format string, rep *roi.Report) {
	f, err := output.Lookup(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := f.Render(&buf, rep); err != nil {
		s.writeError(w, r, err)
		return
	}
	if f.Format() == output.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="pingplotter-roi.xlsx"`)
	}
	s.writeBody(w, r, contentTypes[f.Format()], buf.Bytes())
}

// writeBody sends a rendered body. Headers are already out when a write
// fails, so the failure is only logged.
func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		s.log.Warn("failed to write response",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
	}
}

func (s *Server) response(r *http.Request, rep *roi.Report, cost *downtime.Cost, start time.Time) ROIResponse {
	return ROIResponse{
		RequestID: requestIDFrom(r.Context()),
		Downtime:  cost,
		Report:    rep,
		Metadata:  s.metadata(start, determinism.Fingerprint(rep.Input, rep.Table.Schedule())),
	}
}

func (s *Server) metadata(start time.Time, fingerprint determinism.StableID) ResponseMetadata {
	return ResponseMetadata{
		Fingerprint: string(fingerprint),
		Version:     s.version,
		Timestamp:   time.Now().UTC(),
		DurationMs:  time.Since(start).Milliseconds(),
	}
}

// decode reads a size-limited JSON body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.log.Debug("rejected request body", zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err))
		return errors.Wrap(errors.TypeParsing, "invalid request body", err)
	}
	return nil
}
