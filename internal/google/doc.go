// Package google provides OAuth2 authentication and token management for the
// Google APIs the agent reads from.
//
// Tokens can come from disk (cached per account under the user cache
// directory) or from an in-memory CredentialStore shared across server
// handlers. The TokenProvider interface lets the two be used interchangeably.
package google
