package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutritionnest/coaching-api/internal/core/ports"
)

type PlanHandler struct {
	plans ports.PlanService
}

func NewPlanHandler(plans ports.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// List handles GET /plans.
func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.plans.ListPlans(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plans)
}

// Get handles GET /plans/:id.
func (h *PlanHandler) Get(c echo.Context) error {
	plan, err := h.plans.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// Create handles POST /plans.
func (h *PlanHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plan, err := h.plans.CreatePlan(c.Request().Context(), caller, toPlanInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, plan)
}

// Update handles PUT /plans/:id.
func (h *PlanHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.plans.UpdatePlan(c.Request().Context(), caller, c.Param("id"), toPlanInput(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /plans/:id.
func (h *PlanHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.plans.DeletePlan(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toPlanInput(req planRequest) ports.PlanInput {
	meals := make([]ports.MealInput, 0, len(req.Meals))
	for _, m := range req.Meals {
		meals = append(meals, ports.MealInput{Name: m.Name, Foods: m.Foods})
	}
	return ports.PlanInput{
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CalorieTarget: req.CalorieTarget,
		ProteinTarget: req.ProteinTarget,
		CarbsTarget:   req.CarbsTarget,
		FatTarget:     req.FatTarget,
		Meals:         meals,
	}
}
