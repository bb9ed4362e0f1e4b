// Package services implements the driving port interfaces.
// Services contain the core business logic: path filtering, event
// debouncing, bounded retry, section merging and pipeline orchestration.
//
// Services are pure Go with no external dependencies beyond uuid.
package services
