// Package generator renders plugin entities into output files. Every
// artifact type has a path function, computable without rendering so that
// exclusion can be decided first, and a pure render function. Markdown
// artifacts open with an H1 equal to the artifact name; hooks and settings
// are aggregated into pretty-printed JSON documents.
package generator
