package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"systore/internal/domain"
	"systore/internal/usecase"
)

type ReportHandler struct {
	useCase usecase.ReportUseCase
	log     *logrus.Logger
}

func NewReportHandler(uc usecase.ReportUseCase, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.Dashboard)

	reports := router.Group("/reports")
	{
		reports.POST("", h.CreateReport)
		reports.GET("", h.ListReports)
		reports.GET("/:id", h.GetReportByID)
		reports.PUT("/:id", h.UpdateReport)
		reports.DELETE("/:id", h.DeleteReport)
	}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Dashboard stats computed", h.useCase.Dashboard())
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var report domain.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		h.log.Errorf("Failed to bind JSON for create report: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateReport(&report)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create report '%s': %v", report.Name, err)
		ErrorResponse(c, statusCode, "Failed to create report: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Report created successfully", created)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.useCase.ListReports()
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to list reports: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve reports: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Reports retrieved successfully", reports)
}

func (h *ReportHandler) reportID(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid report ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid report ID format")
		return 0, false
	}
	return id, true
}

func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	report, err := h.useCase.GetReportByID(id)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get report by ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to retrieve report: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Report retrieved successfully", report)
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	var report domain.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		h.log.Errorf("Failed to bind JSON for update report ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	report.ID = id

	updated, err := h.useCase.UpdateReport(&report)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to update report ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update report: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Report updated successfully", updated)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteReport(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete report ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete report: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Report deleted successfully", nil)
}
