// internal/domain/product/entity.go
package product

// Product mirrors the upstream catalog document. Field names follow the
// upstream wire contract, which the browser client also consumes.
type Product struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Reviews      []Review `json:"reviews,omitempty"`
	Rating       float64  `json:"rating"`
	NumReviews   int      `json:"numReviews"`
	Price        float64  `json:"price"`
	CountInStock int      `json:"countInStock"`
}

// Review is one customer review attached to a product
type Review struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	User    string `json:"user,omitempty"`
}

// ProductInput is the payload for admin product create/update
type ProductInput struct {
	Name         string  `json:"name" binding:"required"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"min=0"`
	CountInStock int     `json:"countInStock" binding:"min=0"`
}
