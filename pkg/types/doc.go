// Package types provides the identity and value types shared by the library,
// circuit and board models.
//
// Physical quantities are stored as integers so that equality is exact and a
// round trip through the file format never drifts:
//
//   - Length is a signed number of nanometres.
//   - Angle is a signed number of micro-degrees.
//   - Point is a pair of lengths in board coordinates (y grows upwards).
//
// Identifier wraps a random 128-bit UUID. The all-zero identifier is reserved
// to mean "none" and is never produced by NewIdentifier.
package types
