// Package lawdit provides a legal due-diligence pipeline for data rooms.
// It indexes a folder of documents by rendering every page to an image and
// summarizing it with a vision model, then runs a multi-agent analysis over
// the resulting index to identify legal risks and produce Word and HTML
// deliverables.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, poppler/).
package lawdit
