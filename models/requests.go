package models

// Auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

// Users

type UpdateProfileRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Phone     *string    `json:"phone"`
	Addresses *[]Address `json:"addresses" binding:"omitempty,dive"`
}

type AdminUpdateUserRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Role      *string    `json:"role" binding:"omitempty,oneof=user admin"`
	IsBlocked *bool      `json:"isBlocked"`
	Addresses *[]Address `json:"addresses" binding:"omitempty,dive"`
}

// Catalog

type CreateCategoryRequest struct {
	Title           string   `json:"title" binding:"required"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	Icon            string   `json:"icon"`
	Tags            []string `json:"tags"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	ParentCategory  string   `json:"parentCategory"`
	IsFeatured      bool     `json:"isFeatured"`
}

// UpdateCategoryRequest is a partial update; an empty ParentCategory moves the
// category to the top level.
type UpdateCategoryRequest struct {
	Title           *string   `json:"title" binding:"omitempty,min=1"`
	Slug            *string   `json:"slug"`
	Description     *string   `json:"description"`
	Image           *string   `json:"image"`
	Icon            *string   `json:"icon"`
	Tags            *[]string `json:"tags"`
	MetaTitle       *string   `json:"metaTitle"`
	MetaDescription *string   `json:"metaDescription"`
	ParentCategory  *string   `json:"parentCategory"`
	IsFeatured      *bool     `json:"isFeatured"`
	IsActive        *bool     `json:"isActive"`
}

type CreateProductRequest struct {
	Title            string   `json:"title" binding:"required"`
	Slug             string   `json:"slug"`
	SKU              string   `json:"sku"`
	Description      string   `json:"description" binding:"required"`
	ShortDescription string   `json:"shortDescription"`
	Price            float64  `json:"price" binding:"gte=0"`
	DiscountPrice    *float64 `json:"discountPrice" binding:"omitempty,gte=0"`
	Stock            int      `json:"stock" binding:"gte=0"`
	Images           []string `json:"images"`
	Category         string   `json:"category" binding:"required"` // id or slug
	Tags             []string `json:"tags"`
	Colors           []string `json:"colors"`
	Sizes            []string `json:"sizes"`
	IsFeatured       bool     `json:"isFeatured"`
}

type UpdateProductRequest struct {
	Title            *string   `json:"title" binding:"omitempty,min=1"`
	Slug             *string   `json:"slug"`
	SKU              *string   `json:"sku"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"shortDescription"`
	Price            *float64  `json:"price" binding:"omitempty,gte=0"`
	DiscountPrice    *float64  `json:"discountPrice" binding:"omitempty,gte=0"`
	Stock            *int      `json:"stock" binding:"omitempty,gte=0"`
	Images           *[]string `json:"images"`
	Category         *string   `json:"category"`
	Tags             *[]string `json:"tags"`
	Colors           *[]string `json:"colors"`
	Sizes            *[]string `json:"sizes"`
	IsFeatured       *bool     `json:"isFeatured"`
	IsActive         *bool     `json:"isActive"`
}

// Cart

type CartItemRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
}

// Orders

type CheckoutRequest struct {
	PaymentMethod   string           `json:"paymentMethod" binding:"required,oneof=COD Card"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// Reviews

type CreateReviewRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Comment   string   `json:"comment" binding:"required"`
	Images    []string `json:"images"`
}

type ReviewStatusRequest struct {
	IsApproved *bool `json:"isApproved" binding:"required"`
}

// Media

type PresignUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	ExpiresIn int64             `json:"expires_in"`
	Headers   map[string]string `json:"headers,omitempty"`
}
