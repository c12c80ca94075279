// Package http provides the shared HTTP session layer for the HCM and WFM
// platform connectors.
//
// Structure:
//
//	client.go    - authenticated client with transparent re-auth on 401
//	auth.go      - token sources (mTLS client-credentials, password grant)
//	paginator.go - $skip cursor pagination
//	errors.go    - auth and remote API error types
package http
