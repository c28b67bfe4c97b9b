package handler

import "github.com/conectar/console-gateway/internal/core/domain"

type createClientRequest struct {
	FacadeName   string              `json:"facadeName" validate:"required"`
	CNPJ         string              `json:"cnpj" validate:"required"`
	CompanyName  string              `json:"companyName" validate:"required"`
	Tags         string              `json:"tags"`
	Status       domain.ClientStatus `json:"status" validate:"omitempty,oneof=Ativo Inativo Pendente"`
	ConectaPlus  domain.ConectaPlus  `json:"conectaPlus" validate:"omitempty,oneof=Sim Não"`
	AssignedTo   string              `json:"assignedTo"`
	AssignedToID int64               `json:"assignedToId" validate:"gte=0"`
	domain.Address
	InternalNotes string `json:"internalNotes"`
}

func (r createClientRequest) input() domain.ClientInput {
	return domain.ClientInput{
		FacadeName:    r.FacadeName,
		CNPJ:          r.CNPJ,
		CompanyName:   r.CompanyName,
		Tags:          r.Tags,
		Status:        r.Status,
		ConectaPlus:   r.ConectaPlus,
		AssignedTo:    r.AssignedTo,
		AssignedToID:  r.AssignedToID,
		Address:       r.Address,
		InternalNotes: r.InternalNotes,
	}
}

// updateClientRequest only carries fields that may change; id and the
// timestamps are dropped at bind time.
type updateClientRequest struct {
	FacadeName    *string              `json:"facadeName" validate:"omitempty,min=1"`
	CNPJ          *string              `json:"cnpj" validate:"omitempty,min=1"`
	CompanyName   *string              `json:"companyName" validate:"omitempty,min=1"`
	Tags          *string              `json:"tags"`
	Status        *domain.ClientStatus `json:"status" validate:"omitempty,oneof=Ativo Inativo Pendente"`
	ConectaPlus   *domain.ConectaPlus  `json:"conectaPlus" validate:"omitempty,oneof=Sim Não"`
	AssignedTo    *string              `json:"assignedTo"`
	AssignedToID  *int64               `json:"assignedToId" validate:"omitempty,gte=0"`
	CEP           *string              `json:"cep"`
	Street        *string              `json:"street"`
	Number        *string              `json:"number"`
	Complement    *string              `json:"complement"`
	Neighborhood  *string              `json:"neighborhood"`
	City          *string              `json:"city"`
	State         *string              `json:"state"`
	InternalNotes *string              `json:"internalNotes"`
}

func (r updateClientRequest) patch() domain.ClientPatch {
	return domain.ClientPatch{
		FacadeName:    r.FacadeName,
		CNPJ:          r.CNPJ,
		CompanyName:   r.CompanyName,
		Tags:          r.Tags,
		Status:        r.Status,
		ConectaPlus:   r.ConectaPlus,
		AssignedTo:    r.AssignedTo,
		AssignedToID:  r.AssignedToID,
		CEP:           r.CEP,
		Street:        r.Street,
		Number:        r.Number,
		Complement:    r.Complement,
		Neighborhood:  r.Neighborhood,
		City:          r.City,
		State:         r.State,
		InternalNotes: r.InternalNotes,
	}
}

type listClientsQuery struct {
	Name        string              `query:"name"`
	CNPJ        string              `query:"cnpj"`
	Status      domain.ClientStatus `query:"status" validate:"omitempty,oneof=Ativo Inativo Pendente"`
	ConectaPlus domain.ConectaPlus  `query:"conectaPlus" validate:"omitempty,oneof=Sim Não"`
}

func (q listClientsQuery) filter() domain.ClientFilter {
	return domain.ClientFilter{
		Name:        q.Name,
		CNPJ:        q.CNPJ,
		Status:      q.Status,
		ConectaPlus: q.ConectaPlus,
	}
}
