package models

import "time"

type Category struct {
	UUID      string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	UUID       string    `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Image      string    `json:"image"`
	CategoryID string    `json:"-"`
	Category   *Category `json:"category,omitempty"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
