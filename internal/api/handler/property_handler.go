package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/core/ports"
)

// maxUploadBytes caps how much of each uploaded file is read. One byte over
// the limit is enough for the service to reject the file as too large.
const maxUploadBytes = 5 << 20

// PropertyHandler handles HTTP requests for listing operations.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// List returns a page of listings.
//
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        ciudad      query  string   false  "Filter by city"
// @Param        precio_min  query  number   false  "Minimum price"
// @Param        precio_max  query  number   false  "Maximum price"
// @Param        amueblado   query  boolean  false  "Furnished only"
// @Param        page        query  integer  false  "Page (1-based)"
// @Param        limit       query  integer  false  "Page size (max 100)"
// @Success      200  {object}  listPropertiesResponse
// @Router       /api/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context(), listFilterFromQuery(c.QueryParams()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListWire(result))
}

// Get returns a single listing.
//
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        id  path  string  true  "Property id"
// @Success      200  {object}  propertyResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	property, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWire(property))
}

// Create adds a listing from a multipart form. Image files arrive in the
// imagen/imagenes fields; JPEG and PNG only, 5 MiB per file.
//
// @Summary      Create a property
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  propertyResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input, err := fromWire(readPropertyForm(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid property fields"})
	}
	input.OwnerID = userID

	input.Images, err = readImageUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image upload"})
	}

	property, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toWire(property))
}

// Update replaces a listing from a multipart form. URLs listed in
// imagenes_existentes are kept; new files are appended.
//
// @Summary      Update a property
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Property id"
// @Success      200  {object}  propertyResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	created, err := fromWire(readPropertyForm(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid property fields"})
	}

	images, err := readImageUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image upload"})
	}

	input := ports.UpdatePropertyInput{
		Title:       created.Title,
		Description: created.Description,
		Address:     created.Address,
		City:        created.City,
		Country:     created.Country,
		Price:       created.Price,
		Bedrooms:    created.Bedrooms,
		Bathrooms:   created.Bathrooms,
		AreaM2:      created.AreaM2,
		Furnished:   created.Furnished,
		Available:   created.Available,
		NewImages:   images,
	}
	if form, formErr := c.MultipartForm(); formErr == nil {
		input.KeepImages = form.Value["imagenes_existentes"]
	}

	property, err := h.service.Update(c.Request().Context(), c.Param("id"), userID, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toWire(property))
}

// Delete removes a listing.
//
// @Summary      Delete a property
// @Tags         properties
// @Security     BearerAuth
// @Param        id  path  string  true  "Property id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func readPropertyForm(c echo.Context) propertyForm {
	return propertyForm{
		Titulo:       c.FormValue("titulo"),
		Descripcion:  c.FormValue("descripcion"),
		Direccion:    c.FormValue("direccion"),
		Ciudad:       c.FormValue("ciudad"),
		Pais:         c.FormValue("pais"),
		Precio:       c.FormValue("precio"),
		Habitaciones: c.FormValue("habitaciones"),
		Banos:        c.FormValue("banos"),
		Superficie:   c.FormValue("superficie"),
		Amueblado:    c.FormValue("amueblado"),
		Disponible:   c.FormValue("disponible"),
	}
}

// readImageUploads collects files from the imagen and imagenes fields.
// Reads are capped one byte past the size limit so oversized files are
// detected without buffering the whole upload.
func readImageUploads(c echo.Context) ([]ports.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; images are optional.
		return nil, nil
	}

	var headers []*multipart.FileHeader
	headers = append(headers, form.File["imagen"]...)
	headers = append(headers, form.File["imagenes"]...)

	uploads := make([]ports.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, ports.ImageUpload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}
