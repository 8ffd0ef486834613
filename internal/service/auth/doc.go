// Package auth decodes service access tokens locally.
//
// In "jwt" auth mode the API does not call the identity gateway. Tokens are
// HMAC-SHA256 signed JWTs whose claims mirror the gateway's decoded token
// (sub, client_id, role, organizationid), so the rest of the request pipeline
// sees the same idm.AccessToken either way.
package auth
