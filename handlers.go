package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ecofleet/ecofleet-go/utils"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handlePredict handles JSON prediction requests. A malformed submission
// yields an error payload scoped to this request; the server keeps
// serving.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "Invalid request body: "+err.Error())
		return
	}
	if req.Values == nil {
		writeBadRequestResponse(w, "values is required")
		return
	}

	prediction := s.inference.Predict(req.Values)
	if !prediction.OK() {
		writeJSONResponse(w, http.StatusBadRequest, prediction)
		return
	}

	writeJSONResponse(w, http.StatusOK, prediction)
}

// handleMetadata serves the loaded schema and training metrics so clients
// can build their form without hardcoding the column vocabulary.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"categorical":     s.inference.Schema.Categorical,
		"numeric":         s.inference.Schema.Numeric,
		"target":          s.inference.Schema.Target,
		"metrics":         s.inference.Metrics,
		"fleet_average":   s.inference.FleetAverage,
		"fallback_schema": s.inference.FallbackSchema,
	})
}

// handleListTips returns the most recent user eco tips.
func (s *Server) handleListTips(w http.ResponseWriter, r *http.Request) {
	if s.tips == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "tips store unavailable")
		return
	}

	tips, err := s.tips.List(parseLimit(r, 50))
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to list tips: "+err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, tips)
}

// handleAddTip stores one user-submitted eco tip.
func (s *Server) handleAddTip(w http.ResponseWriter, r *http.Request) {
	if s.tips == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "tips store unavailable")
		return
	}

	var req struct {
		Tip       string   `json:"tip"`
		Predicted *float64 `json:"predicted,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Tip) == "" {
		writeBadRequestResponse(w, "tip is required")
		return
	}

	tip, err := s.tips.Add(strings.TrimSpace(req.Tip), req.Predicted)
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to store tip: "+err.Error())
		return
	}

	writeJSONResponse(w, http.StatusCreated, tip)
}

// handleHome renders the prediction form and, on submission, the result
// with the comparison chart and suggestions.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := &homePageData{
		Categorical:  s.inference.Schema.Categorical,
		Numeric:      s.inference.Schema.Numeric,
		Dropdowns:    s.inference.Dropdowns,
		FleetAverage: s.inference.FleetAverage,
		Submitted:    map[string]string{},
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			data.Error = "Invalid form submission"
			s.renderHome(w, data)
			return
		}

		values := make(map[string]string)
		for _, col := range s.inference.Schema.FeatureColumns() {
			values[col] = r.FormValue(col)
			data.Submitted[col] = r.FormValue(col)
		}

		prediction := s.inference.Predict(values)
		if prediction.OK() {
			data.Result = prediction
			if chart, err := renderComparisonChart(prediction.Value, s.inference.FleetAverage); err == nil {
				data.Chart = chart
			} else {
				utils.GetLogger().Error("Chart rendering failed", err, utils.Component("http"))
			}
		} else {
			data.Error = prediction.Err
		}

		if tip := strings.TrimSpace(r.FormValue("user_suggestion")); tip != "" {
			data.UserTip = tip
			if s.tips != nil {
				var predicted *float64
				if prediction.OK() {
					predicted = &prediction.Value
				}
				if _, err := s.tips.Add(tip, predicted); err != nil {
					utils.GetLogger().Error("Failed to store tip", err, utils.Component("http"))
				}
			}
		}
	}

	s.renderHome(w, data)
}

// renderHome writes the home page template.
func (s *Server) renderHome(w http.ResponseWriter, data *homePageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, data); err != nil {
		utils.GetLogger().Error("Template rendering failed", err, utils.Component("http"))
	}
}
