// Package metrics records staging outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	st := stager.New(fsys, stager.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// One-shot CLI runs have no scrape endpoint; WriteTextfile dumps a registry in
// the node_exporter textfile format so a CI host can pick the numbers up.
package metrics
