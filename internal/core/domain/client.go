package domain

import "time"

// ClientStatus is the commercial state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "Ativo"
	ClientInactive ClientStatus = "Inativo"
	ClientPending  ClientStatus = "Pendente"
)

// ConectaPlus flags whether the client subscribed to the Conecta+ service.
type ConectaPlus string

const (
	ConectaPlusYes ConectaPlus = "Sim"
	ConectaPlusNo  ConectaPlus = "Não"
)

// Address is the postal address block of a client.
type Address struct {
	CEP          string `json:"cep,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// Client is a business record managed from the console.
// AssignedToID is a weak reference to a User; nothing cascades through it.
type Client struct {
	ID           int64        `json:"id"`
	FacadeName   string       `json:"facadeName"`
	CNPJ         string       `json:"cnpj"`
	CompanyName  string       `json:"companyName"`
	Tags         string       `json:"tags"`
	Status       ClientStatus `json:"status"`
	ConectaPlus  ConectaPlus  `json:"conectaPlus"`
	AssignedTo   string       `json:"assignedTo,omitempty"`
	AssignedToID int64        `json:"assignedToId,omitempty"`
	Address
	InternalNotes string    `json:"internalNotes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ClientInput is the allow-list of fields accepted on create.
type ClientInput struct {
	FacadeName   string       `json:"facadeName"`
	CNPJ         string       `json:"cnpj"`
	CompanyName  string       `json:"companyName"`
	Tags         string       `json:"tags,omitempty"`
	Status       ClientStatus `json:"status"`
	ConectaPlus  ConectaPlus  `json:"conectaPlus"`
	AssignedTo   string       `json:"assignedTo,omitempty"`
	AssignedToID int64        `json:"assignedToId,omitempty"`
	Address
	InternalNotes string `json:"internalNotes,omitempty"`
}

// NewClient builds a client record from input. The caller assigns the id.
func (in ClientInput) NewClient(id int64, now time.Time) Client {
	return Client{
		ID:            id,
		FacadeName:    in.FacadeName,
		CNPJ:          in.CNPJ,
		CompanyName:   in.CompanyName,
		Tags:          in.Tags,
		Status:        in.Status,
		ConectaPlus:   in.ConectaPlus,
		AssignedTo:    in.AssignedTo,
		AssignedToID:  in.AssignedToID,
		Address:       in.Address,
		InternalNotes: in.InternalNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ClientPatch is the allow-list of fields a partial update may change.
// id, createdAt and updatedAt are deliberately absent.
type ClientPatch struct {
	FacadeName    *string       `json:"facadeName,omitempty"`
	CNPJ          *string       `json:"cnpj,omitempty"`
	CompanyName   *string       `json:"companyName,omitempty"`
	Tags          *string       `json:"tags,omitempty"`
	Status        *ClientStatus `json:"status,omitempty"`
	ConectaPlus   *ConectaPlus  `json:"conectaPlus,omitempty"`
	AssignedTo    *string       `json:"assignedTo,omitempty"`
	AssignedToID  *int64        `json:"assignedToId,omitempty"`
	CEP           *string       `json:"cep,omitempty"`
	Street        *string       `json:"street,omitempty"`
	Number        *string       `json:"number,omitempty"`
	Complement    *string       `json:"complement,omitempty"`
	Neighborhood  *string       `json:"neighborhood,omitempty"`
	City          *string       `json:"city,omitempty"`
	State         *string       `json:"state,omitempty"`
	InternalNotes *string       `json:"internalNotes,omitempty"`
}

// Apply merges every non-nil field into c and stamps UpdatedAt.
func (p ClientPatch) Apply(c *Client, now time.Time) {
	setString(&c.FacadeName, p.FacadeName)
	setString(&c.CNPJ, p.CNPJ)
	setString(&c.CompanyName, p.CompanyName)
	setString(&c.Tags, p.Tags)
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.ConectaPlus != nil {
		c.ConectaPlus = *p.ConectaPlus
	}
	setString(&c.AssignedTo, p.AssignedTo)
	if p.AssignedToID != nil {
		c.AssignedToID = *p.AssignedToID
	}
	setString(&c.CEP, p.CEP)
	setString(&c.Street, p.Street)
	setString(&c.Number, p.Number)
	setString(&c.Complement, p.Complement)
	setString(&c.Neighborhood, p.Neighborhood)
	setString(&c.City, p.City)
	setString(&c.State, p.State)
	setString(&c.InternalNotes, p.InternalNotes)
	c.UpdatedAt = laterOf(c.UpdatedAt, now)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ClientFilter narrows a client listing the way the dashboard does.
// Empty fields match everything.
type ClientFilter struct {
	Name        string
	CNPJ        string
	Status      ClientStatus
	ConectaPlus ConectaPlus
}
