// Package httpapi exposes the ingestion webhook and semantic search
// over HTTP. It is a thin translation layer: handlers validate and
// decode requests, call the driving ports, and map domain errors to
// status codes.
package httpapi
