// Package integration contains the Integration bounded context.
// It models how shop products are kept in step with external systems.
//
// Key concepts:
//   - ProviderConfig: per (provider type, provider name) enablement, settings and credentials
//   - ProductIntegration: per (product, integration) sync cadence and pricing rules
//   - Health: a read-time classification of an integration's operational state
//   - MarketplaceAdapter / SupplierAdapter: ports the sync loop calls out through
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
