// Package language maps file paths to the languages the analyzers
// understand.
package language

import (
	"path/filepath"
	"strings"
)

// Language identifies a supported source language.
type Language string

const (
	Go         Language = "go"
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Rust       Language = "rust"
)

// Detect returns the language for a file path based on its extension.
// ok is false for anything the analyzers do not understand.
func Detect(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return Go, true
	case ".py":
		return Python, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript, true
	case ".ts", ".tsx":
		return TypeScript, true
	case ".rs":
		return Rust, true
	default:
		return "", false
	}
}

// Parse resolves a user-supplied language name. Common aliases map to
// their canonical language.
func Parse(name string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "go", "golang":
		return Go, true
	case "python", "py":
		return Python, true
	case "javascript", "js":
		return JavaScript, true
	case "typescript", "ts":
		return TypeScript, true
	case "rust", "rs":
		return Rust, true
	default:
		return "", false
	}
}

// Supported reports whether path has an analyzable extension.
func Supported(path string) bool {
	_, ok := Detect(path)
	return ok
}

// Code returns the language segment used in signal IDs. TypeScript
// shares the JavaScript heuristics.
func (l Language) Code() string {
	switch l {
	case JavaScript, TypeScript:
		return "js"
	default:
		return string(l)
	}
}

// LineComment returns the line comment prefix for the language.
func (l Language) LineComment() string {
	if l == Python {
		return "#"
	}
	return "//"
}

// HasBlockComments reports whether /* */ style comments apply.
func (l Language) HasBlockComments() bool {
	return l != Python
}
