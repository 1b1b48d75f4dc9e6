// Package common holds helpers shared by several services.
//
// It runs external commands through the Runner interface and returns a Result
// that captures exit status and output, so pipelines can branch on success
// without inspecting exec errors themselves.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
