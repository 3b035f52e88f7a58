package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRecordCorrupt is returned when a persisted record cannot be decoded.
var ErrRecordCorrupt = errors.New("persisted session record corrupt")

// ErrRecordVersion is returned when a persisted record carries a schema
// version newer than this reader understands.
var ErrRecordVersion = errors.New("persisted session record version unsupported")

const recordFormatVersionCurrent = 1

// The persisted slot is a JSON envelope shared with the identity service,
// which writes the same shape into the durable cookie on login and refresh
// responses. The envelope wraps the record under "state" so the schema can
// grow siblings without breaking old readers.
type recordEnvelope struct {
	State   recordState `json:"state"`
	Version int         `json:"version"`
}

type recordState struct {
	Token  string        `json:"token"`
	Claims *recordClaims `json:"claims,omitempty"`
}

type recordClaims struct {
	Role    string `json:"role"`
	SubRole string `json:"subRole,omitempty"`
}

// Encode serializes a [Record] into the persisted envelope format.
func Encode(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrRecordCorrupt)
	}

	env := recordEnvelope{
		State:   recordState{Token: rec.Token},
		Version: recordFormatVersionCurrent,
	}
	if rec.Claims != nil {
		env.State.Claims = &recordClaims{
			Role:    rec.Claims.Role,
			SubRole: rec.Claims.SubRole,
		}
	}

	return json.Marshal(env)
}

// Decode parses a persisted envelope back into a [Record]. Claims with an
// empty role are dropped rather than propagated; the guard treats a missing
// role as unauthorized, never as a malformed shape.
//
// The slot's writer of record is the server, which guarantees only the
// {state: {token, claims}} shape. An absent or zero version is read as the
// current schema; only a version newer than this reader is rejected.
func Decode(data []byte) (*Record, error) {
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}
	if env.Version > recordFormatVersionCurrent {
		return nil, fmt.Errorf("%w: version %d", ErrRecordVersion, env.Version)
	}

	rec := &Record{Token: env.State.Token}
	if env.State.Claims != nil && env.State.Claims.Role != "" {
		rec.Claims = &Claims{
			Role:    env.State.Claims.Role,
			SubRole: env.State.Claims.SubRole,
		}
	}

	return rec, nil
}
