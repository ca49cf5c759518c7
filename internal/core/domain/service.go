package domain

import "fmt"

// Service is a priced offering managed by the service catalogue.
type Service struct {
	// ID is the unique identifier, assigned when the service is added.
	ID string `json:"id"`

	// Name is the human-readable name.
	Name string `json:"name"`

	// Description is free text shown under the name.
	Description string `json:"description"`

	// Price is kept as entered. Only its presence is checked.
	Price string `json:"price"`
}

// DisplayPrice returns the price formatted for display.
func (s *Service) DisplayPrice() string {
	return fmt.Sprintf("$%s", s.Price)
}

// Set updates a single field. Unknown fields are ignored.
func (s *Service) Set(field ServiceField, value string) {
	switch field {
	case ServiceFieldName:
		s.Name = value
	case ServiceFieldDescription:
		s.Description = value
	case ServiceFieldPrice:
		s.Price = value
	}
}

// Value returns the current value of a field.
func (s *Service) Value(field ServiceField) string {
	switch field {
	case ServiceFieldName:
		return s.Name
	case ServiceFieldDescription:
		return s.Description
	case ServiceFieldPrice:
		return s.Price
	default:
		return ""
	}
}

// ServiceField identifies an editable field of a Service.
type ServiceField string

// Editable service fields.
const (
	ServiceFieldName        ServiceField = "name"
	ServiceFieldDescription ServiceField = "description"
	ServiceFieldPrice       ServiceField = "price"
)

// ServiceFields returns the editable fields in display order.
func ServiceFields() []ServiceField {
	return []ServiceField{ServiceFieldName, ServiceFieldDescription, ServiceFieldPrice}
}

// IsValid returns true if the field is recognised.
func (f ServiceField) IsValid() bool {
	switch f {
	case ServiceFieldName, ServiceFieldDescription, ServiceFieldPrice:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label used as input placeholder.
func (f ServiceField) Label() string {
	switch f {
	case ServiceFieldName:
		return "Name"
	case ServiceFieldDescription:
		return "Description"
	case ServiceFieldPrice:
		return "Price"
	default:
		return unknownDescription
	}
}

// ServiceDraft is the input state for a service that has not been added yet.
type ServiceDraft struct {
	Name        string
	Description string
	Price       string
}

// Complete returns true when every field is non-empty.
func (d ServiceDraft) Complete() bool {
	return d.Name != "" && d.Description != "" && d.Price != ""
}

// Set updates a single field. Unknown fields are ignored.
func (d *ServiceDraft) Set(field ServiceField, value string) {
	switch field {
	case ServiceFieldName:
		d.Name = value
	case ServiceFieldDescription:
		d.Description = value
	case ServiceFieldPrice:
		d.Price = value
	}
}

// LoadResult summarises hydrating the catalogue from its persisted slot.
type LoadResult struct {
	// Count is the number of services loaded.
	Count int

	// Discarded is the number of malformed records that were dropped.
	Discarded int

	// Found is false when the slot held no value yet.
	Found bool
}
