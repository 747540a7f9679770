package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// The frontend consumes listings with Spanish keys; these types are the wire
// contract. The canonical English-keyed entity never leaves the service
// layer. property_mapper.go is the only place the two shapes meet.

type propertyResponse struct {
	ID            string    `json:"id"`
	Titulo        string    `json:"titulo"`
	Descripcion   string    `json:"descripcion"`
	Direccion     string    `json:"direccion"`
	Ciudad        string    `json:"ciudad"`
	Pais          string    `json:"pais"`
	Precio        float64   `json:"precio"`
	Habitaciones  int       `json:"habitaciones"`
	Banos         int       `json:"banos"`
	Superficie    float64   `json:"superficie"`
	Amueblado     bool      `json:"amueblado"`
	Disponible    bool      `json:"disponible"`
	Imagenes      []string  `json:"imagenes"`
	Propietario   string    `json:"propietario_id"`
	CreadoEn      time.Time `json:"creado_en"`
	ActualizadoEn time.Time `json:"actualizado_en"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listPropertiesResponse struct {
	Data       []propertyResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
