// Package sanitizer provides input normalization for form data before it is
// validated and sent to the API.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// the trimmed input or empty slices rather than errors.
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Cities: Fold case and accents for comparison - "Málaga " matches "malaga"
//   - Lists: Split comma separated input, remove duplicates and empty values
//   - Slots: Trim, deduplicate and sort HH:mm values
//   - Phone numbers: Convert to E.164 format (+[country][number]) when parseable
package sanitizer
