// Package common contains shared constants and sentinel errors used across
// auth service components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access
// token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the authorization header.
const BearerPrefix = "Bearer "
