// Package gnd wraps the lobid GND search API used to find authority-file
// identifiers for people.
//
// Client issues name queries (optionally qualified by birth year), keeps
// members whose professionOrOccupation labels match an allowed set, and
// retries failed requests under an injected RetryPolicy with a fixed delay.
// Exhausted retries never abort a batch: the caller receives an empty set
// and an error to log.
//
// Successful response bodies may be served from and stored into a
// ResponseCache, and request pacing can be enforced with a rate limiter.
package gnd
