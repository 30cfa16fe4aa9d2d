// Package textutil provides small text helpers shared across components:
// filesystem-safe location names and display-name normalization.
package textutil
