package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Flow metrics live in their own package so provision, roles and services
// can record without importing each other.

var (
	FlowRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vivamove_flow_runs_total",
		Help: "Provisioning flow runs by flow and result",
	}, []string{"flow", "result"}) // result: ok|failed

	Compensations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vivamove_compensations_total",
		Help: "Rollback steps executed after a later step failed",
	}, []string{"flow", "step", "result"}) // result: ok|failed

	RoleResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vivamove_role_resolutions_total",
		Help: "Role resolutions by resulting view",
	}, []string{"view"})

	BrandingLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vivamove_branding_lookups_total",
		Help: "Clinic branding lookups by source",
	}, []string{"source"}) // source: cache|store|error
)

// Register registers the metrics on reg (or the default registerer when nil).
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{FlowRuns, Compensations, RoleResolutions, BrandingLookups} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}
