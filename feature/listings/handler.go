package listings

import (
	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/logger"
	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/core/utils"
	catalog "rainbow-recipes/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for vendor listings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the listing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/listings")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Post("/", auth.RequireMerchant(), h.HandleCreate)
	group.Patch("/:id", auth.RequireMerchant(), h.HandleUpdate)
	group.Delete("/:id", auth.RequireMerchant(), h.HandleDelete)
}

// HandleList lists vendor listings.
// @Summary List vendor listings
// @Tags listings
// @Produce json
// @Param catalogItemId query int false "Catalog item id"
// @Param ownerId query int false "Owner id"
// @Param available query bool false "Only available listings"
// @Success 200 {array} catalog.VendorListing
// @Router /listings [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter := ListFilter{
		CatalogItemID: c.QueryInt("catalogItemId", 0),
		OwnerID:       c.QueryInt("ownerId", 0),
		AvailableOnly: utils.ToBool(c.Query("available")),
	}
	listings, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(listings)
}

// HandleGet returns one listing.
// @Summary Get vendor listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing id"
// @Success 200 {object} catalog.VendorListing
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := pathID(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	listing, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(listing)
}

// CreateRequest is the body of POST /listings.
type CreateRequest struct {
	CatalogItemID any     `json:"catalogItemId"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Unit          string  `json:"unit"`
	Availability  *bool   `json:"availability"`
}

// HandleCreate adds a listing owned by the caller.
// @Summary Create vendor listing
// @Tags listings
// @Accept json
// @Produce json
// @Param body body CreateRequest true "Listing"
// @Success 201 {object} catalog.VendorListing
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	in := CreateInput{
		Name:         req.Name,
		Category:     catalog.Category(req.Category),
		Price:        req.Price,
		Unit:         req.Unit,
		Availability: req.Availability,
	}
	if req.CatalogItemID != nil {
		id, err := utils.ParseID(req.CatalogItemID)
		if err != nil {
			return apperr.Write(c, l, apperr.Validation("catalogItemId must be a positive integer"))
		}
		in.CatalogItemID = &id
	}

	listing, err := h.service.Create(c.UserContext(), auth.FromCtx(c).UserID, in)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateRequest is the body of PATCH /listings/:id.
type UpdateRequest struct {
	Price        *float64 `json:"price"`
	Unit         *string  `json:"unit"`
	Availability *bool    `json:"availability"`
}

// HandleUpdate edits a listing. Only its owner or an admin may do so.
// @Summary Update vendor listing
// @Tags listings
// @Accept json
// @Produce json
// @Param id path int true "Listing id"
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} catalog.VendorListing
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	listing, err := h.service.Update(c.UserContext(), id, UpdateInput(req))
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(listing)
}

// HandleDelete removes a listing. Only its owner or an admin may do so.
// @Summary Delete vendor listing
// @Tags listings
// @Param id path int true "Listing id"
// @Success 204
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperr.Write(c, l, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) authorize(c *fiber.Ctx) (int, error) {
	id, err := pathID(c)
	if err != nil {
		return 0, err
	}
	listing, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return 0, err
	}
	if !auth.FromCtx(c).Owns(listing.OwnerID) {
		return 0, fiber.NewError(fiber.StatusForbidden, "only the owner or an admin can change this listing")
	}
	return id, nil
}

func pathID(c *fiber.Ctx) (int, error) {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id must be a positive integer")
	}
	return id, nil
}
