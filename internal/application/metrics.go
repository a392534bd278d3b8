package application

import "expvar"

// Published under /api/debug/vars.
var (
	metricCompletionCalls    = expvar.NewInt("recommendation_completion_calls")
	metricCompletionFailures = expvar.NewInt("recommendation_completion_failures")
	metricFallbacksServed    = expvar.NewInt("dashboard_fallbacks_served")
	metricProfilesCompleted  = expvar.NewInt("onboarding_profiles_completed")
	metricProfilesSaved      = expvar.NewInt("profile_editor_saves")
)
