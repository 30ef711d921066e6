// Package pagebrief turns web pages into short briefs: a title, keywords,
// a summary, hashtags and a cleaned-up article, produced by a language model
// from the page's main content.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, trafilatura/).
package pagebrief
