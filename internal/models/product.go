package models

import (
	"time"
)

// Gender values accepted for a product
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderKid    = "kid"
	GenderUnisex = "unisex"
)

// Genders lists the accepted gender values in display order
var Genders = []string{GenderMen, GenderWomen, GenderKid, GenderUnisex}

// Product is a catalog entry owned by a user.
// Images are owned exclusively and are removed with the product.
type Product struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string         `gorm:"uniqueIndex;size:255;not null" json:"title"`
	Price       float64        `gorm:"not null;default:0" json:"price"`
	Description *string        `gorm:"type:text" json:"description"`
	Slug        string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Sizes       StringList     `json:"sizes"`
	Gender      string         `gorm:"size:16;not null" json:"gender"`
	Tags        StringList     `json:"tags"`
	UserID      string         `gorm:"type:char(36);not null;index" json:"-"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

// ProductImage is one image URL of a product
type ProductImage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string `gorm:"type:text;not null" json:"url"`
	ProductID string `gorm:"type:char(36);not null;index" json:"-"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name for ProductImage
func (ProductImage) TableName() string {
	return "product_images"
}

// ImageURLs flattens the image rows to their URLs, keeping row order
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
