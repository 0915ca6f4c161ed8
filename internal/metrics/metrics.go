// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

const namespace = "steemrocks"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
