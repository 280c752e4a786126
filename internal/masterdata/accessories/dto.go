package accessories

type IslandDetailRequest struct {
	Island      string  `json:"island" validate:"required,max=100"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Description *string `json:"description,omitempty"`
}

type CreateAccessoryRequest struct {
	Name          string                `json:"name" validate:"required,max=255"`
	PartNumber    string                `json:"part_number" validate:"required,max=100"`
	Price         *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description   *string               `json:"description,omitempty"`
	IslandDetails []IslandDetailRequest `json:"island_details,omitempty" validate:"dive"`
}

// UpdateAccessoryRequest is a partial update. IslandDetails, when present,
// replaces the whole collection.
type UpdateAccessoryRequest struct {
	Name          *string                `json:"name,omitempty" validate:"omitempty,max=255"`
	PartNumber    *string                `json:"part_number,omitempty" validate:"omitempty,max=100"`
	Price         *float64               `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description   *string                `json:"description,omitempty"`
	IslandDetails *[]IslandDetailRequest `json:"island_details,omitempty" validate:"omitempty,dive"`
}
