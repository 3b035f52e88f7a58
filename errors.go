package agriAuth

import (
	"errors"

	"github.com/agrovia/agriAuth/claims"
	"github.com/agrovia/agriAuth/identity"
	"github.com/agrovia/agriAuth/pipeline"
	"github.com/agrovia/agriAuth/session"
)

var (
	// ErrCoreNotReady is an exported constant or variable used by the session core.
	ErrCoreNotReady = errors.New("session core not ready")
	// ErrBuilderUsed is an exported constant or variable used by the session core.
	ErrBuilderUsed = errors.New("builder already used")
)

// Sentinels owned by sub-packages, re-exported so integrations can match
// every core failure with a single import.
var (
	// ErrUnauthorized is an exported constant or variable used by the session core.
	ErrUnauthorized = identity.ErrUnauthorized
	// ErrInvalidCredentials is an exported constant or variable used by the session core.
	ErrInvalidCredentials = identity.ErrInvalidCredentials
	// ErrNoRefreshToken is an exported constant or variable used by the session core.
	ErrNoRefreshToken = pipeline.ErrNoRefreshToken
	// ErrRenewalFailed is an exported constant or variable used by the session core.
	ErrRenewalFailed = pipeline.ErrRenewalFailed
	// ErrSessionCleared is an exported constant or variable used by the session core.
	ErrSessionCleared = pipeline.ErrSessionCleared
	// ErrClaimsInvalid is an exported constant or variable used by the session core.
	ErrClaimsInvalid = claims.ErrInvalid
	// ErrRecordCorrupt is an exported constant or variable used by the session core.
	ErrRecordCorrupt = session.ErrRecordCorrupt
	// ErrRecordVersion is an exported constant or variable used by the session core.
	ErrRecordVersion = session.ErrRecordVersion
)
