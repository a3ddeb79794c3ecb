// Package requestid tags every HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUID, echoes it in the response and stores it in the request
// context. LogExtractor feeds it into pkg/logger.
package requestid
