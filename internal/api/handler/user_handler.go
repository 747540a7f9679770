package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/terracasa/realty-system/internal/api/middleware"
	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

// UserHandler exposes back-office user management.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Apellido string `json:"apellido" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Admin    bool   `json:"admin"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}

// List returns all users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Create adds a user. The CreateUserGate middleware has already decided
// whether this is a bootstrap call (empty system, no auth) or an
// admin-initiated one; on bootstrap the created user is admin regardless of
// the payload.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	bootstrap, _ := c.Get(apimw.CtxBootstrap).(bool)

	user, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Email:    req.Email,
		Password: req.Password,
		Admin:    req.Admin,
	}, bootstrap)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Delete removes a user. Deleting your own account is rejected.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	requesterID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), c.Param("id"), requesterID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
