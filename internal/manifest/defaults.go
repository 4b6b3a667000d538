package manifest

// Default returns the built-in manifest: the chart, table and DOM libraries the
// dashboard templates load from src/static. A new slice is returned on every
// call so callers may modify it freely.
func Default() Manifest {
	return Manifest{
		{
			Source:      "node_modules/d3/dist/d3.min.js",
			Destination: "src/static/js/d3.min.js",
			Name:        "D3.js",
		},
		{
			Source:      "node_modules/chart.js/dist/chart.umd.min.js",
			Destination: "src/static/js/chart.min.js",
			Name:        "Chart.js",
		},
		{
			Source:      "node_modules/datatables.net/js/jquery.dataTables.min.js",
			Destination: "src/static/js/datatables.min.js",
			Name:        "DataTables",
		},
		{
			Source:      "node_modules/jquery/dist/jquery.min.js",
			Destination: "src/static/js/jquery.min.js",
			Name:        "jQuery",
		},
		{
			Source:      "node_modules/datatables.net-dt/css/jquery.dataTables.min.css",
			Destination: "src/static/css/datatables.min.css",
			Name:        "DataTables CSS",
		},
	}
}

// DefaultDirectories returns the static directories created before copying.
func DefaultDirectories() []string {
	return []string{"src/static/js", "src/static/css"}
}
