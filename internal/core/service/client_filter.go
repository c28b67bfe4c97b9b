package service

import (
	"strings"

	"github.com/conectar/console-gateway/internal/core/domain"
)

// filterClients keeps the clients matching every non-empty field of f:
// case-insensitive substring on facade name, substring on CNPJ, exact status
// and Conecta+ flag.
func filterClients(clients []domain.Client, f domain.ClientFilter) []domain.Client {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	cnpj := strings.TrimSpace(f.CNPJ)

	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if name != "" && !strings.Contains(strings.ToLower(c.FacadeName), name) {
			continue
		}
		if cnpj != "" && !strings.Contains(c.CNPJ, cnpj) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.ConectaPlus != "" && c.ConectaPlus != f.ConectaPlus {
			continue
		}
		out = append(out, c)
	}
	return out
}
