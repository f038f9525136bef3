// Package metrics exports renderer activity as Prometheus metrics.
//
// An Observer plugs into a vdom.Renderer:
//
//	reg := prometheus.NewRegistry()
//	obs := metrics.NewObserver(metrics.WithRegistry(reg))
//	r := vdom.NewRenderer(doc, vdom.WithObserver(obs))
//
// Metrics collected (namespace "rangedom" by default):
//   - rangedom_nodes_mounted_total: nodes mounted, by kind
//   - rangedom_nodes_reused_total: nodes patched in place, by kind
//   - rangedom_nodes_replaced_total: nodes torn down and remounted, by kind
//   - rangedom_children_removed_total: trailing children deleted on shrink
//   - rangedom_children_retained_total: stale children left attached on shrink
//   - rangedom_updates_total: component updates, by component and status
//   - rangedom_update_duration_seconds: component update duration
package metrics
