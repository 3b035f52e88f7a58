// Package identity is the HTTP client for the remote identity and profile
// service consumed by the session core: login, registration, password
// recovery, credential renewal, logout, and the profile fetch that resolves
// role claims when they are not embedded in the access token.
//
// The client deliberately rides a bare HTTP client, never the
// pipeline-wrapped one: renewal and logout must not recurse into the 401
// interceptor they serve.
package identity
