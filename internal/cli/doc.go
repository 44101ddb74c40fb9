// Package cli holds the cobra commands of the gosh binary.
package cli
