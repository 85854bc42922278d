// Package metrics exports conversion run metrics as a Prometheus textfile.
//
// playlister is a batch tool, so instead of serving /metrics it writes the
// registry to a file picked up by the node_exporter textfile collector.
package metrics
