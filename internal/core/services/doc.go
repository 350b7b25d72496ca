// Package services implements the application core: the ingestion
// pipeline that keeps the vector store in sync with source documents,
// and the semantic search path over the stored chunks.
package services
