package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLimit  = 10
	maxLimit      = 100
	maxNameFilter = 50
)

// SellerPayload is the seller object of a create request
type SellerPayload struct {
	ID      string `json:"id" validate:"required,uuid"`
	Name    string `json:"name" validate:"required,min=2,max=80"`
	Email   string `json:"email" validate:"required,email,seller_domain"`
	Website string `json:"website" validate:"required,url"`
}

// DimensionsPayload is the dimensions object of a create request
type DimensionsPayload struct {
	Length float64 `json:"length" validate:"required,gt=0"`
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

// CreateProductRequest represents the create request payload. The server
// assigns id and created_at; both are ignored if supplied.
type CreateProductRequest struct {
	SKU             string            `json:"sku" validate:"required,min=6,max=36,sku"`
	Name            string            `json:"name" validate:"required,min=3,max=80"`
	Description     string            `json:"description" validate:"max=80"`
	Category        string            `json:"category" validate:"required,min=3,max=50"`
	Brand           string            `json:"brand" validate:"required,min=2,max=40"`
	Price           float64           `json:"price" validate:"required,gt=0"`
	Currency        string            `json:"currency" validate:"omitempty,eq=INR"`
	DiscountPercent int               `json:"discount_percent" validate:"gte=0,lte=90"`
	Stock           int               `json:"stock" validate:"gte=0"`
	IsActive        bool              `json:"is_active"`
	Rating          float64           `json:"rating" validate:"gte=0,lte=5"`
	Tags            []string          `json:"tags"`
	ImageURLs       []string          `json:"image_urls" validate:"omitempty,min=1,dive,url"`
	Seller          SellerPayload     `json:"seller" validate:"required"`
	Dimensions      DimensionsPayload `json:"dimensions" validate:"required"`
}

// SellerUpdatePayload is the sparse seller object of an update request
type SellerUpdatePayload struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=80"`
	Email   *string `json:"email" validate:"omitempty,email,seller_domain"`
	Website *string `json:"website" validate:"omitempty,url"`
}

// DimensionsUpdatePayload is the sparse dimensions object of an update request
type DimensionsUpdatePayload struct {
	Length *float64 `json:"length" validate:"omitempty,gt=0"`
	Width  *float64 `json:"width" validate:"omitempty,gt=0"`
	Height *float64 `json:"height" validate:"omitempty,gt=0"`
}

// UpdateProductRequest represents the partial-update payload. Absent
// fields and explicit nulls are both skipped; update cannot clear a field.
type UpdateProductRequest struct {
	Name            *string                  `json:"name" validate:"omitempty,min=3,max=80"`
	Description     *string                  `json:"description" validate:"omitempty,max=80"`
	Category        *string                  `json:"category" validate:"omitempty,min=3,max=50"`
	Brand           *string                  `json:"brand" validate:"omitempty,min=2,max=40"`
	Price           *float64                 `json:"price" validate:"omitempty,gt=0"`
	Currency        *string                  `json:"currency" validate:"omitempty,eq=INR"`
	DiscountPercent *int                     `json:"discount_percent" validate:"omitempty,gte=0,lte=90"`
	Stock           *int                     `json:"stock" validate:"omitempty,gte=0"`
	IsActive        *bool                    `json:"is_active"`
	Rating          *float64                 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Tags            []string                 `json:"tags"`
	ImageURLs       []string                 `json:"image_urls" validate:"omitempty,min=1,dive,url"`
	Seller          *SellerUpdatePayload     `json:"seller"`
	Dimensions      *DimensionsUpdatePayload `json:"dimensions"`
}

// DimensionsResponse carries the stored dimensions plus the derived volume
type DimensionsResponse struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Volume float64 `json:"volume"`
}

// ProductResponse is the wire shape of a record, including the derived
// final_price that is never persisted
type ProductResponse struct {
	ID              string             `json:"id"`
	SKU             string             `json:"sku"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Brand           string             `json:"brand"`
	Price           float64            `json:"price"`
	Currency        string             `json:"currency"`
	DiscountPercent int                `json:"discount_percent"`
	FinalPrice      float64            `json:"final_price"`
	Stock           int                `json:"stock"`
	IsActive        bool               `json:"is_active"`
	Rating          float64            `json:"rating"`
	Tags            []string           `json:"tags,omitempty"`
	ImageURLs       []string           `json:"image_urls,omitempty"`
	Seller          domain.Seller      `json:"seller"`
	Dimensions      DimensionsResponse `json:"dimensions"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ListProductsResponse is the list envelope
type ListProductsResponse struct {
	Total int               `json:"total"`
	Limit int               `json:"limit"`
	Items []ProductResponse `json:"items"`
}

// DeleteProductResponse confirms a removal
type DeleteProductResponse struct {
	Message string          `json:"message"`
	Data    ProductResponse `json:"data"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID.String(),
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Brand:           p.Brand,
		Price:           p.Price,
		Currency:        p.Currency,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      p.FinalPrice(),
		Stock:           p.Stock,
		IsActive:        p.IsActive,
		Rating:          p.Rating,
		Tags:            p.Tags,
		ImageURLs:       p.ImageURLs,
		Seller:          p.Seller,
		Dimensions: DimensionsResponse{
			Length: p.Dimensions.Length,
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
			Volume: p.Dimensions.Volume(),
		},
		CreatedAt: p.CreatedAt,
	}
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{productID}", h.Get)
		r.Put("/{productID}", h.Update)
		r.Delete("/{productID}", h.Delete)
	})
}

// List handles GET /products. An empty result set, filtered or not, is a
// 404 rather than an empty success; the dashboard relies on that signal.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		h.logger.Debug("List params rejected", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.productService.List(r.Context(), *params)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "no products found matching the search criteria")
			return
		}
		h.logger.Error("List failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	items := make([]ProductResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toProductResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListProductsResponse{
		Total: result.Total,
		Limit: result.Limit,
		Items: items,
	})
}

// Get handles GET /products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Get failed", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(*product))
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), *candidate)
	if err != nil {
		if errors.Is(err, service.ErrSKUConflict) {
			middleware.RespondWithError(w, http.StatusConflict, "product with this sku already exists")
			return
		}
		if domain.IsValidationError(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Create failed", zap.String("sku", req.SKU), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(*product))
}

// Update handles PUT /products/{productID}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toDomain())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if domain.IsValidationError(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Update failed", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(*product))
}

// Delete handles DELETE /products/{productID}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	result, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Delete failed", zap.String("product_id", id.String()), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, DeleteProductResponse{
		Message: result.Message,
		Data:    toProductResponse(result.Removed),
	})
}

func (h *ProductHandler) parseProductID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		h.logger.Debug("Invalid product ID", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return uuid.UUID{}, false
	}
	return id, true
}

func parseListParams(r *http.Request) (*service.ListParams, error) {
	q := r.URL.Query()

	params := &service.ListParams{
		Name:  q.Get("name"),
		Order: "asc",
		Limit: defaultLimit,
	}

	if len(params.Name) > maxNameFilter {
		return nil, errors.New("name filter must be at most 50 characters")
	}

	if v := q.Get("sort_by_price"); v != "" {
		sortByPrice, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("sort_by_price must be a boolean")
		}
		params.SortByPrice = sortByPrice
	}

	if v := q.Get("order"); v != "" {
		params.Order = v
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxLimit {
			return nil, errors.New("limit must be an integer between 1 and 100")
		}
		params.Limit = limit
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return nil, errors.New("offset must be a non-negative integer")
		}
		params.Offset = offset
	}

	return params, nil
}

func (req CreateProductRequest) toDomain() (*domain.Product, error) {
	sellerID, err := uuid.Parse(req.Seller.ID)
	if err != nil {
		return nil, errors.New("invalid seller ID")
	}

	return &domain.Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Brand:           req.Brand,
		Price:           req.Price,
		Currency:        req.Currency,
		DiscountPercent: req.DiscountPercent,
		Stock:           req.Stock,
		IsActive:        req.IsActive,
		Rating:          req.Rating,
		Tags:            req.Tags,
		ImageURLs:       req.ImageURLs,
		Seller: domain.Seller{
			ID:      sellerID,
			Name:    req.Seller.Name,
			Email:   req.Seller.Email,
			Website: req.Seller.Website,
		},
		Dimensions: domain.Dimensions{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		},
	}, nil
}

func (req UpdateProductRequest) toDomain() domain.ProductUpdate {
	update := domain.ProductUpdate{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Brand:           req.Brand,
		Price:           req.Price,
		Currency:        req.Currency,
		DiscountPercent: req.DiscountPercent,
		Stock:           req.Stock,
		IsActive:        req.IsActive,
		Rating:          req.Rating,
		Tags:            req.Tags,
		ImageURLs:       req.ImageURLs,
	}
	if req.Seller != nil {
		update.Seller = &domain.SellerUpdate{
			Name:    req.Seller.Name,
			Email:   req.Seller.Email,
			Website: req.Seller.Website,
		}
	}
	if req.Dimensions != nil {
		update.Dimensions = &domain.DimensionsUpdate{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		}
	}
	return update
}
