// Package console renders operator-facing output that is not a log line:
// colored notices, the rebuild spinner and the step summary table.
package console
