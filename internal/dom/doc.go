// Package dom provides a small query layer over parsed HTML documents.
//
// Extractors never walk the tree themselves. They go through the helpers
// in this package, which wrap goquery selections with the handful of
// traversals the registry pages need:
//
//   - Parse: parse markup into a document
//   - Lines: text content split into trimmed, non-empty lines
//   - HeadingFollowedBy: the first sibling after a heading with exact text
//   - SiblingsWhile: consecutive element siblings matching a selector
//
// Every helper tolerates empty selections and returns zero values instead
// of errors, so missing markup degrades to empty fields.
package dom
