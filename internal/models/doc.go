// Package models defines domain entities and persistence interfaces for the tunebridge conversion service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external catalog data
//   - [Track] : A title/artist pair sourced from a playlist export
//   - [Artist] : An artist credit on a catalog search result
//   - [Candidate] : One search result from the YouTube Music catalog
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ConversionJob] : Conversion operations tracking status, progress, and results
//   - [PersistedTrack] : Cached matched tracks keyed by catalog video ID
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
