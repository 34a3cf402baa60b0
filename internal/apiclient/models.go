package apiclient

import (
	"encoding/json"

	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Category is a node of the two-level category tree.
type Category struct {
	ID            int64      `json:"id"`
	NameAr        string     `json:"nameAr"`
	NameEn        string     `json:"nameEn"`
	IsActive      bool       `json:"isActive"`
	ProductCount  int        `json:"productCount"`
	Image         string     `json:"image,omitempty"`
	ParentID      *int64     `json:"parentId,omitempty"`
	ParentNameAr  string     `json:"parentNameAr,omitempty"`
	ParentNameEn  string     `json:"parentNameEn,omitempty"`
	Children      []Category `json:"children,omitempty"`
	IsParent      bool       `json:"isParent,omitempty"`
	ChildrenCount int        `json:"childrenCount,omitempty"`
	HasChildren   bool       `json:"hasChildren,omitempty"`
}

type Brand struct {
	ID           int64  `json:"id"`
	NameAr       string `json:"nameAr"`
	NameEn       string `json:"nameEn"`
	Logo         string `json:"logo,omitempty"`
	IsActive     bool   `json:"isActive"`
	ProductCount int    `json:"productCount"`
}

// ProductSummary is one row of the catalog grid.
type ProductSummary struct {
	ID                 int64               `json:"id"`
	NameAr             string              `json:"nameAr"`
	NameEn             string              `json:"nameEn"`
	DescriptionAr      string              `json:"descriptionAr,omitempty"`
	DescriptionEn      string              `json:"descriptionEn,omitempty"`
	Price              decimal.Decimal     `json:"price"`
	OriginalPrice      decimal.NullDecimal `json:"originalPrice"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	MainImage          string              `json:"mainImage"`
	Stock              int                 `json:"stock"`
	IsActive           bool                `json:"isActive"`
	Rating             decimal.Decimal     `json:"rating"`
	ReviewCount        int                 `json:"reviewCount"`
	Status             int                 `json:"status"`
	CategoryNameAr     string              `json:"categoryNameAr,omitempty"`
	CategoryNameEn     string              `json:"categoryNameEn,omitempty"`
	IsFeatured         bool                `json:"isFeatured"`
}

// Product is the full product detail.
type Product struct {
	ProductSummary
	SKU        string   `json:"sku"`
	Images     []string `json:"images"`
	CategoryID int64    `json:"categoryId"`
	BrandID    *int64   `json:"brandId,omitempty"`
	VendorID   string   `json:"vendorId"`
	VendorName string   `json:"vendorName,omitempty"`
	SalesCount int      `json:"salesCount"`
	Slug       string   `json:"slug,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

type CartItem struct {
	ID            int64               `json:"id"`
	ProductID     int64               `json:"productId"`
	ProductNameAr string              `json:"productNameAr"`
	ProductNameEn string              `json:"productNameEn"`
	ProductImage  string              `json:"productImage"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Quantity      int                 `json:"quantity"`
	Stock         int                 `json:"stock"`
}

type cartPayload struct {
	Items []CartItem `json:"items"`
}

type PromoCode struct {
	ID              int64               `json:"id"`
	Code            string              `json:"code"`
	DescriptionAr   string              `json:"descriptionAr,omitempty"`
	DescriptionEn   string              `json:"descriptionEn,omitempty"`
	Type            string              `json:"type"`
	Value           decimal.Decimal     `json:"value"`
	MaxDiscount     decimal.NullDecimal `json:"maxDiscount"`
	MinOrderAmount  decimal.NullDecimal `json:"minOrderAmount"`
	MaxUsageCount   *int                `json:"maxUsageCount,omitempty"`
	UsedCount       int                 `json:"usedCount"`
	MaxUsagePerUser *int                `json:"maxUsagePerUser,omitempty"`
	StartDate       string              `json:"startDate,omitempty"`
	EndDate         string              `json:"endDate,omitempty"`
	IsActive        bool                `json:"isActive"`
	CreatedAt       string              `json:"createdAt"`
}

// CreatePromoCode is the admin create payload; Type is the numeric wire form.
type CreatePromoCode struct {
	Code            string              `json:"code"`
	DescriptionAr   string              `json:"descriptionAr,omitempty"`
	DescriptionEn   string              `json:"descriptionEn,omitempty"`
	Type            int                 `json:"type"`
	Value           decimal.Decimal     `json:"value"`
	MaxDiscount     decimal.NullDecimal `json:"maxDiscount"`
	MinOrderAmount  decimal.NullDecimal `json:"minOrderAmount"`
	MaxUsageCount   *int                `json:"maxUsageCount,omitempty"`
	MaxUsagePerUser *int                `json:"maxUsagePerUser,omitempty"`
	StartDate       string              `json:"startDate,omitempty"`
	EndDate         string              `json:"endDate,omitempty"`
}

// MarshalJSON sends amounts as JSON numbers; decimal.Decimal would quote them.
func (p CreatePromoCode) MarshalJSON() ([]byte, error) {
	type wire struct {
		Code            string       `json:"code"`
		DescriptionAr   string       `json:"descriptionAr,omitempty"`
		DescriptionEn   string       `json:"descriptionEn,omitempty"`
		Type            int          `json:"type"`
		Value           json.Number  `json:"value"`
		MaxDiscount     *json.Number `json:"maxDiscount,omitempty"`
		MinOrderAmount  *json.Number `json:"minOrderAmount,omitempty"`
		MaxUsageCount   *int         `json:"maxUsageCount,omitempty"`
		MaxUsagePerUser *int         `json:"maxUsagePerUser,omitempty"`
		StartDate       string       `json:"startDate,omitempty"`
		EndDate         string       `json:"endDate,omitempty"`
	}
	return json.Marshal(wire{
		Code:            p.Code,
		DescriptionAr:   p.DescriptionAr,
		DescriptionEn:   p.DescriptionEn,
		Type:            p.Type,
		Value:           number(p.Value),
		MaxDiscount:     optionalNumber(p.MaxDiscount),
		MinOrderAmount:  optionalNumber(p.MinOrderAmount),
		MaxUsageCount:   p.MaxUsageCount,
		MaxUsagePerUser: p.MaxUsagePerUser,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
	})
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func optionalNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := number(d.Decimal)
	return &n
}

// UpdatePromoCode carries only the fields being changed.
type UpdatePromoCode struct {
	IsActive *bool `json:"isActive,omitempty"`
}

type PromoValidation struct {
	IsValid        bool            `json:"isValid"`
	Message        string          `json:"message,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountType   string          `json:"discountType,omitempty"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
}

type WishlistItem struct {
	ID            int64               `json:"id"`
	ProductID     int64               `json:"productId"`
	ProductNameAr string              `json:"productNameAr"`
	ProductNameEn string              `json:"productNameEn"`
	ProductImage  string              `json:"productImage"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Stock         int                 `json:"stock"`
	AddedAt       string              `json:"addedAt"`
}

type OrderItem struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	ProductNameAr string          `json:"productNameAr"`
	ProductNameEn string          `json:"productNameEn"`
	ProductImage  string          `json:"productImage"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
	VendorID      string          `json:"vendorId,omitempty"`
	VendorName    string          `json:"vendorName,omitempty"`
}

type Order struct {
	ID                int64               `json:"id"`
	OrderNumber       string              `json:"orderNumber"`
	CustomerName      string              `json:"customerName,omitempty"`
	ShippingName      string              `json:"shippingName"`
	ShippingPhone     string              `json:"shippingPhone"`
	ShippingAddress   string              `json:"shippingAddress"`
	ShippingCity      string              `json:"shippingCity"`
	ShippingNotes     string              `json:"shippingNotes,omitempty"`
	SubTotal          decimal.Decimal     `json:"subTotal"`
	ShippingCost      decimal.Decimal     `json:"shippingCost"`
	Discount          decimal.Decimal     `json:"discount"`
	Tax               decimal.Decimal     `json:"tax"`
	Total             decimal.Decimal     `json:"total"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	PaymentMethod     string              `json:"paymentMethod"`
	DeliveryAgentName string              `json:"deliveryAgentName,omitempty"`
	CreatedAt         string              `json:"createdAt"`
	DeliveredAt       string              `json:"deliveredAt,omitempty"`
	Items             []OrderItem         `json:"items"`
}

type OrderSummary struct {
	ID           int64             `json:"id"`
	OrderNumber  string            `json:"orderNumber"`
	CustomerName string            `json:"customerName,omitempty"`
	ItemsCount   int               `json:"itemsCount"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	CreatedAt    string            `json:"createdAt"`
}

type CreateOrder struct {
	ShippingName    string `json:"shippingName"`
	ShippingPhone   string `json:"shippingPhone"`
	ShippingAddress string `json:"shippingAddress"`
	ShippingCity    string `json:"shippingCity,omitempty"`
	ShippingNotes   string `json:"shippingNotes,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
}

// PlacedOrder is the create-order result. CheckoutURL is set when payment continues off-site.
type PlacedOrder struct {
	Order       Order  `json:"order"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName               string `json:"fullName"`
	Email                  string `json:"email"`
	Password               string `json:"password"`
	ConfirmPassword        string `json:"confirmPassword"`
	PhoneNumber            string `json:"phoneNumber"`
	Role                   string `json:"role"`
	BusinessName           string `json:"businessName,omitempty"`
	CommercialRegistration string `json:"commercialRegistration,omitempty"`
	TaxNumber              string `json:"taxNumber,omitempty"`
	BusinessAddress        string `json:"businessAddress,omitempty"`
}

// AuthResult is the un-enveloped auth endpoint response.
type AuthResult struct {
	Success      bool           `json:"success"`
	IsNewUser    bool           `json:"isNewUser,omitempty"`
	Message      string         `json:"message"`
	Token        string         `json:"token,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	Role         string         `json:"role,omitempty"`
	User         map[string]any `json:"user,omitempty"`
}
