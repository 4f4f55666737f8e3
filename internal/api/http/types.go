package http

import (
	"github.com/GriffinCanCode/giroscopio/internal/domain/actions"
	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
)

type webRequest struct {
	URL *string `json:"url"`
}

type customRequest struct {
	AppPath string `json:"app_path"`
}

type commandRequest struct {
	Command string `json:"command"`
}

type executeRequest struct {
	Action string  `json:"action"`
	URL    *string `json:"url"`
}

// actionResponse is an outcome merged with the stats snapshot taken after it.
type actionResponse struct {
	actions.Outcome
	Stats stats.Snapshot `json:"stats"`
}

type errorResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Action       actions.Tag     `json:"action,omitempty"`
	ValidActions []string        `json:"valid_actions,omitempty"`
	Error        string          `json:"error,omitempty"`
	Stats        *stats.Snapshot `json:"stats,omitempty"`
}

type healthResponse struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Timestamp  string         `json:"timestamp"`
	InstanceID string         `json:"instance_id"`
	Stats      stats.Snapshot `json:"stats"`
}

type statsResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Stats     stats.Snapshot `json:"stats"`
}

// resolveURL applies the default when the request carried no url.
func resolveURL(url *string) string {
	if url == nil {
		return actions.DefaultURL
	}
	return *url
}
