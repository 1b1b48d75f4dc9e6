// Package marker persists the Discord version seen at the last rebuild.
//
// The FileRepository keeps a single plain-text value on disk and exposes a
// Repository interface the updater service depends on.
package marker
