// Package service contains the application-specific use cases. It
// orchestrates repositories (defined in internal/store) to answer parsed
// OData queries, and decides where transactional boundaries lie: a page of
// people and its total count are read from the same snapshot.
//
// The service layer depends on domain entities and repository interfaces,
// never on specific infrastructure implementations.
package service
