package internaldefs

import (
	agriAuth "github.com/agrovia/agriAuth"
)

// CounterDef defines a public type used by agriAuth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   agriAuth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session core.
var CounterDefs = []CounterDef{
	{ID: agriAuth.MetricLoginSuccess, Name: "agriauth_login_success_total", Help: "Successful login attempts."},
	{ID: agriAuth.MetricLoginFailure, Name: "agriauth_login_failure_total", Help: "Failed login attempts."},
	{ID: agriAuth.MetricLogout, Name: "agriauth_logout_total", Help: "Logout operations."},
	{ID: agriAuth.MetricSessionHydrated, Name: "agriauth_session_hydrated_total", Help: "Sessions restored from storage at bootstrap."},
	{ID: agriAuth.MetricSessionCleared, Name: "agriauth_session_cleared_total", Help: "Session clears, explicit and forced."},
	{ID: agriAuth.MetricRenewalStarted, Name: "agriauth_renewal_started_total", Help: "Credential renewal attempts started."},
	{ID: agriAuth.MetricRenewalSuccess, Name: "agriauth_renewal_success_total", Help: "Successful credential renewals."},
	{ID: agriAuth.MetricRenewalFailure, Name: "agriauth_renewal_failure_total", Help: "Failed credential renewals."},
	{ID: agriAuth.MetricRenewalCoalesced, Name: "agriauth_renewal_coalesced_total", Help: "Requests that joined an in-flight renewal instead of starting one."},
	{ID: agriAuth.MetricRetrySuccess, Name: "agriauth_retry_success_total", Help: "Replayed requests that passed after renewal."},
	{ID: agriAuth.MetricRetryExhausted, Name: "agriauth_retry_exhausted_total", Help: "Replayed requests rejected again after renewal."},
	{ID: agriAuth.MetricRetryAbandoned, Name: "agriauth_retry_abandoned_total", Help: "Faulting requests whose body could not be replayed."},
	{ID: agriAuth.MetricForcedRedirect, Name: "agriauth_forced_redirect_total", Help: "Forced navigations to the unauthenticated entry point."},
	{ID: agriAuth.MetricClaimsResolved, Name: "agriauth_claims_resolved_total", Help: "Successful claim resolutions."},
	{ID: agriAuth.MetricClaimsFailure, Name: "agriauth_claims_failure_total", Help: "Failed claim resolutions."},
	{ID: agriAuth.MetricStorageWriteFailure, Name: "agriauth_storage_write_failure_total", Help: "Session record writes rejected by the storage binding."},
	{ID: agriAuth.MetricGuardHydrating, Name: "agriauth_guard_hydrating_total", Help: "Guard evaluations answered Hydrating."},
	{ID: agriAuth.MetricGuardUnauthenticated, Name: "agriauth_guard_unauthenticated_total", Help: "Guard evaluations answered Unauthenticated."},
	{ID: agriAuth.MetricGuardUnauthorized, Name: "agriauth_guard_unauthorized_total", Help: "Guard evaluations answered Unauthorized."},
	{ID: agriAuth.MetricGuardAuthorized, Name: "agriauth_guard_authorized_total", Help: "Guard evaluations answered Authorized."},
}
