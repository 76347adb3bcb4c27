// Package field provides builders for declaring table columns and their
// database metadata: primary keys, uniqueness, nullability, indexes,
// foreign keys, defaults and timezone-awareness.
//
// Each builder finalizes into a Descriptor, the explicit per-column
// metadata record the synthesis engine reads. Builders never panic;
// invalid combinations carry an error on the descriptor that surfaces
// when the model is constructed.
package field
