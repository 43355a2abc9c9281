package server

import (
	"strings"

	"fieldops/internal/models"
	"fieldops/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetCompanies lists onboarded companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /companies [get]
func (s *Server) GetCompanies(c *fiber.Ctx) error {
	companies, err := s.companyRepo.List(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"companies": companies,
		"count":     len(companies),
	})
}

type createCompanyBody struct {
	Name        string `json:"name"`
	CompanyType string `json:"company_type"`
}

// CreateCompany onboards a new company
// @Summary Create a company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body createCompanyBody true "Company"
// @Success 201 {object} models.Company
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (s *Server) CreateCompany(c *fiber.Ctx) error {
	var body createCompanyBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateName("company name", body.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	companyType := models.CompanyType(body.CompanyType)
	if body.CompanyType == "" {
		companyType = models.CompanyTypeService
	}
	if !models.IsValidCompanyType(companyType) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid company type"))
	}

	company := &models.Company{
		Name:        strings.TrimSpace(body.Name),
		CompanyType: companyType,
	}
	if err := s.companyRepo.Create(c.Context(), company); err != nil {
		return respondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(company)
}
