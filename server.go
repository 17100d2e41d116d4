package main

import (
	"github.com/gorilla/mux"

	"github.com/ecofleet/ecofleet-go/pkg/config"
	"github.com/ecofleet/ecofleet-go/pkg/inference"
	"github.com/ecofleet/ecofleet-go/utils"
)

// Server represents the EcoFleet prediction server. The inference context
// it holds is loaded once here and never mutated afterwards; request
// handlers only read from it.
type Server struct {
	router    *mux.Router
	cfg       *config.Config
	inference *inference.Context
	tips      *utils.TipsStore
}

// PredictionRequest represents a JSON predict call: one value per schema
// column, all as strings exactly as a form would submit them.
type PredictionRequest struct {
	Values map[string]string `json:"values"`
}

// NewServer loads the serving artifacts and wires the routes. A missing
// model artifact is fatal; a missing metadata file falls back to the
// default schema and is only logged.
func NewServer(cfg *config.Config) (*Server, error) {
	logger := utils.GetLogger()

	ictx, err := inference.NewContext(inference.Options{
		ModelPath:    cfg.ModelPath,
		MetadataPath: cfg.MetadataPath,
		DataPaths:    cfg.DataPaths,
	})
	if err != nil {
		return nil, err
	}

	if ictx.FallbackSchema {
		logger.Warn("Metadata not found, serving default schema",
			utils.String("metadata_path", cfg.MetadataPath),
			utils.Component("server"))
	}
	if ictx.FleetAverage == nil {
		logger.Warn("No reference dataset loaded, fleet comparison disabled",
			utils.Component("server"))
	} else {
		logger.Info("Reference dataset loaded",
			utils.Float("fleet_average", *ictx.FleetAverage),
			utils.Component("server"))
	}

	s := &Server{
		router:    mux.NewRouter(),
		cfg:       cfg,
		inference: ictx,
	}

	tips, err := utils.NewTipsStore(cfg.TipsDBPath)
	if err != nil {
		// Tips are a side feature; predictions work without them.
		logger.Warn("Tips store unavailable",
			utils.String("path", cfg.TipsDBPath),
			utils.Component("server"))
	} else {
		s.tips = tips
	}

	s.setupRoutes()
	return s, nil
}

// Close releases server resources.
func (s *Server) Close() {
	if s.tips != nil {
		s.tips.Close()
	}
}
