package store

import (
	"time"

	"github.com/conectar/console-gateway/internal/core/domain"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedUsers returns a fresh copy of the fixture users.
func SeedUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Admin User", Email: "admin@conectar.com", Role: domain.RoleAdmin, IsActive: true,
			CreatedAt: ts("2024-01-15T10:00:00Z"), UpdatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: 2, Name: "João Silva", Email: "joao@conectar.com", Role: domain.RoleUser, IsActive: true,
			CreatedAt: ts("2024-01-16T14:30:00Z"), UpdatedAt: ts("2024-01-16T14:30:00Z")},
		{ID: 3, Name: "Maria Santos", Email: "maria@conectar.com", Role: domain.RoleUser, IsActive: false,
			CreatedAt: ts("2024-01-17T09:15:00Z"), UpdatedAt: ts("2024-01-17T09:15:00Z")},
	}
}

// SeedClients returns a fresh copy of the fixture clients.
func SeedClients() []domain.Client {
	return []domain.Client{
		{
			ID: 1, FacadeName: "Empresa ABC Ltda", CNPJ: "12.345.678/0001-90",
			CompanyName: "Empresa ABC Comércio e Serviços Ltda", Tags: "tecnologia, software, consultoria",
			Status: domain.ClientActive, ConectaPlus: domain.ConectaPlusYes,
			AssignedTo: "João Silva", AssignedToID: 2,
			CreatedAt: ts("2024-01-10T08:00:00Z"), UpdatedAt: ts("2024-01-15T16:30:00Z"),
		},
		{
			ID: 2, FacadeName: "Tech Solutions", CNPJ: "98.765.432/0001-10",
			CompanyName: "Tech Solutions Tecnologia Ltda", Tags: "desenvolvimento, mobile, web",
			Status: domain.ClientActive, ConectaPlus: domain.ConectaPlusYes,
			AssignedTo: "Maria Santos", AssignedToID: 3,
			CreatedAt: ts("2024-01-12T10:30:00Z"), UpdatedAt: ts("2024-01-14T11:45:00Z"),
		},
		{
			ID: 3, FacadeName: "Consultoria XYZ", CNPJ: "11.222.333/0001-44",
			CompanyName: "Consultoria XYZ Assessoria Empresarial Ltda", Tags: "consultoria, estratégia, negócios",
			Status: domain.ClientInactive, ConectaPlus: domain.ConectaPlusNo,
			AssignedTo: "João Silva", AssignedToID: 2,
			CreatedAt: ts("2024-01-08T14:20:00Z"), UpdatedAt: ts("2024-01-13T09:10:00Z"),
		},
		{
			ID: 4, FacadeName: "Startup Inovação", CNPJ: "55.666.777/0001-88",
			CompanyName: "Startup Inovação Tecnológica Ltda", Tags: "startup, inovação, fintech",
			Status: domain.ClientPending, ConectaPlus: domain.ConectaPlusNo,
			AssignedTo: "Admin User", AssignedToID: 1,
			CreatedAt: ts("2024-01-20T13:00:00Z"), UpdatedAt: ts("2024-01-20T13:00:00Z"),
		},
	}
}
