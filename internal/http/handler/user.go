package handler

import (
	"github.com/gofiber/fiber/v2"

	"printshop/internal/model"
	"printshop/internal/service"
)

type createUserRequest struct {
	ID   string `json:"id" form:"id" validate:"required"`
	Name string `json:"name" form:"name" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" form:"role" validate:"required,oneof=customer admin"`
}

// CreateUser godoc
// @Summary Create or get a user
// @Description Registers the identity-provider subject on first sign-in; later calls return the stored user.
// @Tags users
// @Accept json
// @Produce json
// @Param body body createUserRequest true "User"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Router /api/users [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := bindBody(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.CreateOrGet(c.UserContext(), req.ID, req.Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// GetUser godoc
// @Summary Get a user with their orders
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.UserWithOrders
// @Failure 404 {object} errorPayload
// @Router /api/users/{id} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Get(c.UserContext(), pathParam(c, "id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body updateRoleRequest true "Role"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/users/{id}/role [patch]
func UpdateUserRole(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateRoleRequest
		if err := bindBody(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.UpdateRole(c.UserContext(), pathParam(c, "id"), model.Role(req.Role))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}
