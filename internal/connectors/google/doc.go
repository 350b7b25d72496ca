// Package google provides read-only access to Google Docs and Drive for
// document ingestion: service construction from service account
// credentials, per-service rate limiting, and conversion of the Docs
// body structure into ordered text segments.
package google
