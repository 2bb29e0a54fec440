// Package voxo implements the account and authentication core of the voxo
// backend: signup validation, password hashing, local and bearer
// authentication strategies, token issuance, and read-only user lookups.
//
// The package exposes small interfaces (Identity, Config, TokenService) and
// returns concrete types; HTTP wiring lives in the controllers and the
// middleware/jwtware package, process bootstrap in cmd/voxod.
package voxo
