// Package publish verifies a scaffolded tool with the site build and opens a
// pull request for it. Every step is an external command run through a
// Runner; the first non-zero exit stops the sequence and nothing is rolled
// back, so a failed build leaves the new branch and dirty tree in place.
package publish
