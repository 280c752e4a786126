package products

type CreateProductRequest struct {
	Code        string   `json:"code" validate:"required,max=100"`
	Name        string   `json:"name" validate:"required,max=255"`
	Segment     *string  `json:"segment,omitempty" validate:"omitempty,max=100"`
	Model       *string  `json:"model,omitempty" validate:"omitempty,max=100"`
	Engine      *string  `json:"engine,omitempty" validate:"omitempty,max=100"`
	WheelCount  *int     `json:"wheel_count,omitempty" validate:"omitempty,gte=0"`
	Volume      *string  `json:"volume,omitempty" validate:"omitempty,max=100"`
	Horsepower  *string  `json:"horsepower,omitempty" validate:"omitempty,max=100"`
	MarketPrice *float64 `json:"market_price,omitempty" validate:"omitempty,gte=0"`
	Image       *string  `json:"image,omitempty"`
}

type UpdateProductRequest struct {
	Code        *string  `json:"code,omitempty" validate:"omitempty,max=100"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Segment     *string  `json:"segment,omitempty" validate:"omitempty,max=100"`
	Model       *string  `json:"model,omitempty" validate:"omitempty,max=100"`
	Engine      *string  `json:"engine,omitempty" validate:"omitempty,max=100"`
	WheelCount  *int     `json:"wheel_count,omitempty" validate:"omitempty,gte=0"`
	Volume      *string  `json:"volume,omitempty" validate:"omitempty,max=100"`
	Horsepower  *string  `json:"horsepower,omitempty" validate:"omitempty,max=100"`
	MarketPrice *float64 `json:"market_price,omitempty" validate:"omitempty,gte=0"`
	Image       *string  `json:"image,omitempty"`
}
