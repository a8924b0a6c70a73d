// Package metrics exposes application metrics collectors.
package metrics

import "github.com/goodnatureofminers/penumbra-indexer/internal/model"

const namespace = "penumbra_indexer"

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func networkLabel(network model.Network) string {
	if network == "" {
		return "unknown"
	}
	return string(network)
}
