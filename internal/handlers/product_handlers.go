package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"farmmart/internal/common"
	"farmmart/internal/models"
	"farmmart/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for the product catalog.
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ListProducts handles GET /products. Farmers see their own catalog via the
// mine=true query flag; everyone else gets the full listing.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	if c.QueryParam("mine") == "true" {
		farmerID, ok := common.GetUserIDFromContext(ctx)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		products, err := h.productService.ListByFarmer(ctx, farmerID, limit, offset)
		if err != nil {
			return common.SendServerError(c, "Failed to retrieve products")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"products": products,
			"limit":    limit,
			"offset":   offset,
		})
	}

	products, err := h.productService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateProduct handles POST /products (farmer only).
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	farmerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req struct {
		Name      string  `json:"name"`
		UnitPrice float64 `json:"unit_price"`
		Quantity  int     `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := &models.Product{
		FarmerID:  farmerID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
	}
	if err := h.productService.Create(ctx, product); err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		}
		return common.SendServerError(c, "Failed to create product")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"product": product,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productService.GetByID(c.Request().Context(), productID)
	if err != nil {
		if errors.Is(err, common.ErrProductNotFound) {
			return common.SendNotFound(c, "Product not found")
		}
		return common.SendServerError(c, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product": product,
	})
}

// UpdateProduct handles PUT /products/:id (owning farmer only).
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	farmerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Name      string  `json:"name"`
		UnitPrice float64 `json:"unit_price"`
		Quantity  int     `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := &models.Product{
		ID:        productID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
	}
	if err := h.productService.Update(ctx, farmerID, product); err != nil {
		var validationErr *common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		case errors.Is(err, common.ErrProductNotFound):
			return common.SendNotFound(c, "Product not found")
		default:
			return common.SendServerError(c, "Failed to update product")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
	})
}

// DeleteProduct handles DELETE /products/:id (owning farmer only).
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	farmerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productService.Delete(ctx, farmerID, productID); err != nil {
		if errors.Is(err, common.ErrProductNotFound) {
			return common.SendNotFound(c, "Product not found")
		}
		return common.SendServerError(c, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

// UploadImage handles POST /products/:id/image (owning farmer only).
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	farmerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded image")
	}
	defer src.Close()

	url, err := h.productService.AttachImage(ctx, farmerID, productID, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, common.ErrProductNotFound) {
			return common.SendNotFound(c, "Product not found")
		}
		return common.SendServerError(c, "Failed to store image")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"image_url": url,
	})
}

func paginationParams(c echo.Context) (int, int) {
	limit := 50
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}
