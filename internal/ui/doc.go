// Package ui holds the color themes shared by the one-shot output and the
// interactive surface. Themes honor the NO_COLOR convention.
package ui
