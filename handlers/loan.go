package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack-backend/database"
	"fintrack-backend/ledger"
	"fintrack-backend/models"
	"fintrack-backend/utils"
)

// POST /api/loans
func CreateLoan(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	// EMI is a pure function of these fields; computing it up front also
	// validates amount, rate and tenure.
	if _, err := ledger.ComputeEMI(req.TotalAmount, req.InterestRate, req.TenureMonths); err != nil {
		utils.LedgerError(c, err)
		return
	}

	loan := models.Loan{
		UserID:       userID,
		Name:         req.Name,
		TotalAmount:  req.TotalAmount.Round(2),
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
		StartDate:    startDate,
	}
	if err := database.DB.Create(&loan).Error; err != nil {
		utils.InternalError(c, "Failed to create loan")
		return
	}

	response, err := buildLoanResponse(loan, c)
	if err != nil {
		utils.LedgerError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Loan added", response)
}

// GET /api/loans
func GetLoans(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var loans []models.Loan
	if err := database.DB.Where("user_id = ?", userID).
		Order("start_date DESC, created_at DESC").Find(&loans).Error; err != nil {
		utils.InternalError(c, "Failed to load loans")
		return
	}

	responses := make([]models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		response, err := buildLoanResponse(loan, c)
		if err != nil {
			utils.LedgerError(c, err)
			return
		}
		responses = append(responses, response)
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// PUT /api/loans/:id — wholesale replace; EMI and schedule are pure
// functions of the stored fields, so there is nothing to patch piecemeal.
func UpdateLoan(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	loanID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid loan ID")
		return
	}

	var req models.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}

	if _, err := ledger.ComputeEMI(req.TotalAmount, req.InterestRate, req.TenureMonths); err != nil {
		utils.LedgerError(c, err)
		return
	}

	var loan models.Loan
	if err := database.DB.First(&loan, "id = ? AND user_id = ?", loanID, userID).Error; err != nil {
		utils.NotFound(c, "Loan not found")
		return
	}

	loan.Name = req.Name
	loan.TotalAmount = req.TotalAmount.Round(2)
	loan.InterestRate = req.InterestRate
	loan.TenureMonths = req.TenureMonths
	loan.StartDate = startDate

	if err := database.DB.Save(&loan).Error; err != nil {
		utils.InternalError(c, "Failed to update loan")
		return
	}

	response, err := buildLoanResponse(loan, c)
	if err != nil {
		utils.LedgerError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Loan updated", response)
}

// DELETE /api/loans/:id
func DeleteLoan(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	loanID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid loan ID")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", loanID, userID).Delete(&models.Loan{})
	if result.Error != nil {
		utils.InternalError(c, "Failed to delete loan")
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Loan not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Loan deleted", nil)
}

// GET /api/loans/:id/schedule
func GetSchedule(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	loanID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid loan ID")
		return
	}

	asOf, err := utils.AsOfDate(c)
	if err != nil {
		utils.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	var loan models.Loan
	if err := database.DB.First(&loan, "id = ? AND user_id = ?", loanID, userID).Error; err != nil {
		utils.NotFound(c, "Loan not found")
		return
	}

	rows, err := ledger.GenerateSchedule(loan.TotalAmount, loan.InterestRate, loan.TenureMonths, loan.StartDate)
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	progress, err := ledger.DeriveProgress(loan, asOf)
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	rowJSON := make([]models.ScheduleRowJSON, 0, len(rows))
	for _, row := range rows {
		rowJSON = append(rowJSON, models.ScheduleRowJSON{
			Month:     row.Month,
			DueDate:   row.DueDate,
			Payment:   row.Payment,
			Interest:  row.Interest,
			Principal: row.Principal,
			Balance:   row.Balance,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.ScheduleResponse{
		LoanID:          loan.ID,
		EMI:             progress.EMI,
		Rows:            rowJSON,
		MonthsPaid:      progress.MonthsPaid,
		AmountPaid:      progress.AmountPaid,
		AmountRemaining: progress.AmountRemaining,
		ProgressPct:     progress.ProgressPct,
	})
}

func buildLoanResponse(loan models.Loan, c *gin.Context) (models.LoanResponse, error) {
	asOf, err := utils.AsOfDate(c)
	if err != nil {
		return models.LoanResponse{}, &ledger.ValidationError{Msg: "invalid as_of date"}
	}

	progress, err := ledger.DeriveProgress(loan, asOf)
	if err != nil {
		return models.LoanResponse{}, err
	}

	return models.LoanResponse{
		ID:              loan.ID,
		Name:            loan.Name,
		TotalAmount:     loan.TotalAmount,
		InterestRate:    loan.InterestRate,
		TenureMonths:    loan.TenureMonths,
		StartDate:       loan.StartDate,
		EMI:             progress.EMI,
		MonthsPaid:      progress.MonthsPaid,
		AmountPaid:      progress.AmountPaid,
		AmountRemaining: progress.AmountRemaining,
		ProgressPct:     progress.ProgressPct,
	}, nil
}
