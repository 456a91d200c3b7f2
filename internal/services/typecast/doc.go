// Package typecast wraps the Typecast text-to-speech REST API.
//
// The client issues POST /v1/text-to-speech requests authenticated with the
// X-API-KEY header and returns the raw audio body, and lists the voice
// catalogue through GET /v1/voices. Requests are retried with exponential
// backoff on 408, 429 and 5xx responses as well as transport timeouts,
// honouring Retry-After when the server provides it. Every failure surfaced
// to callers is tagged with services.ErrExternalService.
package typecast
