// Package toolspec asks the generative service for one new tool proposal and
// decodes it into a ToolSpec. Responses are checked against an embedded JSON
// schema; a malformed response is retried exactly once with a stricter
// instruction before the run is abandoned.
package toolspec
