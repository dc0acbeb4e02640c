// Package scaffold writes a new tool into an Astro site: the page under
// src/pages/tools, the generated script under public/js, a placeholder
// TypeScript module under src/tools, and a link on the index page. Page and
// module are rendered from embedded templates.
package scaffold
