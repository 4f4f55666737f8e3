package http

import (
	"github.com/GriffinCanCode/giroscopio/internal/domain/actions"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/monitoring"
)

// HandlerMetrics records action outcomes on behalf of the handlers. A nil
// *HandlerMetrics records nothing.
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	if metrics == nil {
		return nil
	}
	return &HandlerMetrics{metrics: metrics}
}

// RecordOutcome tracks one action attempt and the current device count
func (hm *HandlerMetrics) RecordOutcome(outcome actions.Outcome, devices int) {
	if hm == nil {
		return
	}
	hm.metrics.RecordAction(outcome.Action.String(), outcome.Success, string(outcome.Via))
	hm.metrics.SetDevicesConnected(devices)
}

// TrackCommand starts timing a synchronous command; call the returned func when it finishes
func (hm *HandlerMetrics) TrackCommand() func() {
	if hm == nil {
		return func() {}
	}
	timer := monitoring.NewTimer()
	return func() {
		hm.metrics.ObserveCommand(timer.Elapsed())
	}
}
