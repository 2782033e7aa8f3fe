// Package authgate classifies inbound requests before any business logic runs.
//
// Internal routes (status, login, setup, connection management) require the
// shared API token generated at startup and handed to the frontend via /init.
// External routes (platform callbacks) optionally pass a fixed source IP
// allow-list. All denials are an opaque 403; no distinction between a bad
// secret and a bad source address is exposed.
//
// Browser login sessions are HS256 JWTs signed with a per-process secret, so
// they are valid only for the lifetime of the process that issued them.
package authgate
