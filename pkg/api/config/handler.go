package config

import (
	"encoding/json"
	"net/http"
	"sort"

	coreConfig "startup_valuation/pkg/core/config"
)

// Response is the public view of the running configuration. Secrets are
// never included.
type Response struct {
	CurrencySymbol string   `json:"currency_symbol"`
	ReportTitle    string   `json:"report_title"`
	NarrativeModes []string `json:"narrative_modes"`
	ExportFormats  []string `json:"export_formats"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	cfg   coreConfig.Config
	modes []string
}

// NewHandler creates a new config handler
func NewHandler(cfg coreConfig.Config, narrativeModes []string) *Handler {
	modes := append([]string{"none"}, narrativeModes...)
	sort.Strings(modes[1:])
	return &Handler{cfg: cfg, modes: modes}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, _ *http.Request) {
	resp := Response{
		CurrencySymbol: h.cfg.CurrencySymbol,
		ReportTitle:    h.cfg.ReportTitle,
		NarrativeModes: h.modes,
		ExportFormats:  []string{"xlsx", "pdf", "html"},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
