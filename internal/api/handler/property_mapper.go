package handler

import (
	"net/url"
	"strconv"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

// toWire converts the canonical entity to the Spanish-keyed wire shape.
func toWire(p *domain.Property) propertyResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return propertyResponse{
		ID:            p.ID,
		Titulo:        p.Title,
		Descripcion:   p.Description,
		Direccion:     p.Address,
		Ciudad:        p.City,
		Pais:          p.Country,
		Precio:        p.Price,
		Habitaciones:  p.Bedrooms,
		Banos:         p.Bathrooms,
		Superficie:    p.AreaM2,
		Amueblado:     p.Furnished,
		Disponible:    p.Available,
		Imagenes:      images,
		Propietario:   p.OwnerID,
		CreadoEn:      p.CreatedAt.UTC(),
		ActualizadoEn: p.UpdatedAt.UTC(),
	}
}

func toListWire(r *ports.ListPropertiesResult) listPropertiesResponse {
	items := make([]propertyResponse, len(r.Items))
	for i, p := range r.Items {
		items[i] = toWire(p)
	}
	return listPropertiesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

// propertyForm holds the Spanish multipart field values before translation.
type propertyForm struct {
	Titulo       string
	Descripcion  string
	Direccion    string
	Ciudad       string
	Pais         string
	Precio       string
	Habitaciones string
	Banos        string
	Superficie   string
	Amueblado    string
	Disponible   string
}

// fromWire parses the Spanish form fields into the service input. The price
// is mandatory; the other numeric fields default to zero when absent. Parse
// failures surface as ErrMissingFields so the handler answers 400.
func fromWire(f propertyForm) (ports.CreatePropertyInput, error) {
	var out ports.CreatePropertyInput

	precio, err := parseFloat(f.Precio)
	if err != nil {
		return out, domain.ErrMissingFields
	}
	habitaciones, err := parseIntOptional(f.Habitaciones)
	if err != nil {
		return out, domain.ErrMissingFields
	}
	banos, err := parseIntOptional(f.Banos)
	if err != nil {
		return out, domain.ErrMissingFields
	}
	superficie, err := parseFloatOptional(f.Superficie)
	if err != nil {
		return out, domain.ErrMissingFields
	}

	out = ports.CreatePropertyInput{
		Title:       f.Titulo,
		Description: f.Descripcion,
		Address:     f.Direccion,
		City:        f.Ciudad,
		Country:     f.Pais,
		Price:       precio,
		Bedrooms:    habitaciones,
		Bathrooms:   banos,
		AreaM2:      superficie,
		Furnished:   parseBool(f.Amueblado),
		Available:   parseBoolDefault(f.Disponible, true),
	}
	return out, nil
}

// listFilterFromQuery translates the public query parameters
// (ciudad, precio_min, precio_max, amueblado, page, limit).
func listFilterFromQuery(q url.Values) ports.ListPropertiesFilter {
	filter := ports.ListPropertiesFilter{City: q.Get("ciudad")}

	if v, err := parseFloat(q.Get("precio_min")); err == nil {
		filter.MinPrice = v
	}
	if v, err := parseFloat(q.Get("precio_max")); err == nil {
		filter.MaxPrice = v
	}
	if raw := q.Get("amueblado"); raw != "" {
		furnished := parseBool(raw)
		filter.Furnished = &furnished
	}
	if v, err := parseInt(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := parseInt(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	return filter
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseIntOptional(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseFloatOptional(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	return parseBool(s)
}
