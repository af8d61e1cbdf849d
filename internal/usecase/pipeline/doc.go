// Package pipeline implements map-reduce processing of long documents on top of
// a language model primitive.
//
// Summarizer chunks oversized input with Split, transforms the chunks
// concurrently, joins the usable partial outputs and repeats on the joined text
// until it fits into one window. A final call then merges what is left into one
// cohesive summary. Individual chunk failures only shrink the joined text; the
// request as a whole ends in an entity.Result, never in an error.
//
// Translator reuses the same chunking and map stage with disjoint windows.
package pipeline
