// Package richtext converts per-character styled text into minimal, safe HTML.
//
// The package is organized around three stages:
//
//   - Segmentation: [Segment] partitions a [StyledText] into maximal runs of
//     uniform link and style attributes.
//   - Rendering: [RenderRuns] turns an ordered run sequence into escaped,
//     nested HTML ([Render] combines both stages).
//   - Fallback: [Linkify] renders plain strings without style metadata,
//     wrapping URL- and email-looking tokens in anchors.
//
// # Output Contract
//
// Anchors always carry target="_blank" rel="noopener noreferrer". Style
// nesting order is span(color) > strong > em > u > text. Newlines become
// <br> in a single final pass over the concatenated output. Body text
// escapes & < >; attribute values escape & " <.
//
// # Error Handling
//
// Adapter failures (a [StyledText] returning an error for any position)
// abort only that text's conversion. Callers substitute [Linkify] for the
// affected cell and continue; a single bad cell never aborts a whole table.
package richtext
