package handler

import (
	"errors"
	"net/http"
	"strings"

	"jobpilot-service/internal/apperror"
	"jobpilot-service/internal/dto"
	"jobpilot-service/internal/middleware"
	"jobpilot-service/internal/service"
	"jobpilot-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgCompanyFailed = "Server error. Please try again."

type CompanyHandler struct {
	companies *service.CompanyService
}

func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Setup handles POST /api/company/setup. Fields arrive as multipart form
// values (with an optional "logo" file) or as JSON.
func (h *CompanyHandler) Setup(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}

	var req dto.CompanyRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse company request", zap.Error(err))
		return badRequest(c, "All required fields must be provided.")
	}

	var logo *dto.LogoFile
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("logo")
		switch {
		case err == nil:
			f, err := fh.Open()
			if err != nil {
				return respondError(c, apperror.Server(msgCompanyFailed, err), msgCompanyFailed)
			}
			defer f.Close()
			logo = &dto.LogoFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
				Body:        f,
			}
		case errors.Is(err, http.ErrMissingFile):
		default:
			return respondError(c, apperror.Server(msgCompanyFailed, err), msgCompanyFailed)
		}
	}

	company, err := h.companies.Setup(c.Request().Context(), user.ID, &req, logo)
	if err != nil {
		return respondError(c, err, msgCompanyFailed)
	}

	return c.JSON(http.StatusOK, dto.CompanyResponse{
		Message: "Company profile saved successfully!",
		Company: company,
	})
}

// GetMine handles GET /api/company/my-company
func (h *CompanyHandler) GetMine(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Not authorized, no token."})
	}

	company, err := h.companies.Get(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err, "Server error fetching company profile.")
	}
	return c.JSON(http.StatusOK, company)
}
