package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

// AdminHandler exposes the privileged user-management routes. The route-level
// admin gate has already run by the time these execute; the service performs
// its own role check again, so a stale route decision cannot mutate anything.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// List handles GET /admin/users.
func (h *AdminHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	users, err := h.admin.ListUsers(c.Request().Context(), caller, c.QueryParam("search"))
	if err != nil {
		return err
	}

	resp := listUsersResponse{Data: make([]userResponse, 0, len(users))}
	for i := range users {
		resp.Data = append(resp.Data, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /admin/users.
func (h *AdminHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.admin.CreateUser(c.Request().Context(), caller, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		PlanID:   req.PlanID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /admin/users/:id.
func (h *AdminHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := ports.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := h.admin.UpdateUser(c.Request().Context(), caller, c.Param("id"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /admin/users/:id.
func (h *AdminHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.admin.DeleteUser(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Block handles POST /admin/users/:id/block.
func (h *AdminHandler) Block(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req blockUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.admin.BlockUser(c.Request().Context(), caller, c.Param("id"), req.Blocked); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignPlan handles POST /admin/users/:id/plan. An empty plan_id clears the
// assignment.
func (h *AdminHandler) AssignPlan(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req assignPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.admin.AssignPlan(c.Request().Context(), caller, c.Param("id"), req.PlanID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
