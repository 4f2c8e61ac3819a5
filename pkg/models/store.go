package models

// StoreSettings guarda a configuração de funcionamento da loja (linha única)
type StoreSettings struct {
	BaseModel
	Name                     string  `gorm:"not null;default:'Açaiteria'" json:"name"`
	Phone                    string  `json:"phone"`
	IsManuallyOpen           bool    `gorm:"not null;default:true" json:"is_manually_open"`
	OperatingDays            string  `gorm:"not null;default:'1,2,3,4,5,6'" json:"operating_days"` // 0=domingo .. 6=sábado, separados por vírgula
	OpeningTime              *string `gorm:"type:varchar(5)" json:"opening_time"`
	ClosingTime              *string `gorm:"type:varchar(5)" json:"closing_time"`
	DeliveryStartTime        *string `gorm:"type:varchar(5)" json:"delivery_start_time"`
	DeliveryEndTime          *string `gorm:"type:varchar(5)" json:"delivery_end_time"`
	Timezone                 string  `gorm:"not null;default:'America/Sao_Paulo'" json:"timezone"`
	DeliveryFeeCents         int64   `gorm:"not null;default:0" json:"delivery_fee_cents"`
	MinimumOrderCents        int64   `gorm:"not null;default:0" json:"minimum_order_cents"`
	EstimatedDeliveryMinutes int     `gorm:"not null;default:40" json:"estimated_delivery_minutes"`
}

// UpdateStoreSettingsRequest represents the admin form for store hours
type UpdateStoreSettingsRequest struct {
	Name                     *string `json:"name"`
	Phone                    *string `json:"phone"`
	IsManuallyOpen           *bool   `json:"is_manually_open"`
	OperatingDays            []int   `json:"operating_days" validate:"omitempty,dive,min=0,max=6"`
	OpeningTime              *string `json:"opening_time"`
	ClosingTime              *string `json:"closing_time"`
	DeliveryStartTime        *string `json:"delivery_start_time"`
	DeliveryEndTime          *string `json:"delivery_end_time"`
	Timezone                 *string `json:"timezone"`
	DeliveryFeeCents         *int64  `json:"delivery_fee_cents" validate:"omitempty,min=0"`
	MinimumOrderCents        *int64  `json:"minimum_order_cents" validate:"omitempty,min=0"`
	EstimatedDeliveryMinutes *int    `json:"estimated_delivery_minutes" validate:"omitempty,min=0"`
}

// ManualOpenRequest toggles the manual override
type ManualOpenRequest struct {
	IsManuallyOpen *bool `json:"is_manually_open" validate:"required"`
}
