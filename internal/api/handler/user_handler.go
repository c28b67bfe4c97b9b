package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

// UserHandler serves the profile page and the admin user list.
type UserHandler struct {
	service ports.ConsoleService
}

func NewUserHandler(service ports.ConsoleService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=admin user"`
}

type updateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive *bool        `json:"isActive"`
	Password *string      `json:"password" validate:"omitempty"`
}

func (r updateUserRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		IsActive: r.IsActive,
		Password: r.Password,
	}
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	u, err := h.service.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// List returns every user. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user. Regular users may only read themselves.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := authorizeSelf(c, id); err != nil {
		return err
	}

	u, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Create adds a user. Admin only.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	u, err := h.service.CreateUser(c.Request().Context(), domain.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// Update merges the provided fields into a user. Regular users may only edit
// their own name, e-mail and password.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := authorizeSelf(c, id); err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Role != nil || req.IsActive != nil {
		if u, _ := sessionUser(c); u == nil || u.Role != domain.RoleAdmin {
			return fmt.Errorf("change role or activation: %w", domain.ErrForbidden)
		}
	}

	u, err := h.service.UpdateUser(c.Request().Context(), id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes a user. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.DeleteResult
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.service.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// authorizeSelf lets admins through and restricts everyone else to their own id.
func authorizeSelf(c echo.Context, id int64) error {
	u, err := sessionUser(c)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleAdmin && u.ID != id {
		return fmt.Errorf("user %d: %w", id, domain.ErrForbidden)
	}
	return nil
}
