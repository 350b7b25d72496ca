// Package domain contains the core business entities for Vellum.
// These types have no dependencies on infrastructure and are shared
// by services, ports and adapters.
package domain
