package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack-backend/database"
	"fintrack-backend/ledger"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
)

// POST /api/debts
func CreateDebt(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.BadRequest(c, "Amount must be positive")
		return
	}
	if req.InterestRate.IsNegative() {
		utils.BadRequest(c, "Interest rate must not be negative")
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := utils.ParseDate(req.DueDate)
		if err != nil {
			utils.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		if parsed.Before(date) {
			utils.BadRequest(c, "Due date must not precede the debt date")
			return
		}
		dueDate = &parsed
	}

	period := req.InterestPeriod
	if period == "" {
		period = models.PeriodMonthly
	}
	if !period.Valid() {
		utils.BadRequest(c, "Interest period must be Daily, Monthly or Yearly")
		return
	}

	var debt models.Debt
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var borrower models.Borrower
		switch {
		case req.BorrowerID != "":
			borrowerID, err := utils.ParseUUID(req.BorrowerID)
			if err != nil {
				return &ledger.ValidationError{Msg: "invalid borrower id"}
			}
			if err := tx.First(&borrower, "id = ? AND user_id = ?", borrowerID, userID).Error; err != nil {
				return &ledger.NotFoundError{Resource: "borrower"}
			}
		case req.NewBorrowerName != "":
			borrower = models.Borrower{UserID: userID, Name: req.NewBorrowerName}
			if err := tx.Create(&borrower).Error; err != nil {
				return err
			}
		default:
			return &ledger.ValidationError{Msg: "borrower id or name required"}
		}

		debt = models.Debt{
			UserID:         userID,
			BorrowerID:     borrower.ID,
			Principal:      req.Amount.Round(2),
			Date:           date,
			DueDate:        dueDate,
			InterestRate:   req.InterestRate,
			InterestPeriod: period,
			Reason:         req.Reason,
			Status:         models.DebtActive,
		}
		return tx.Create(&debt).Error
	})
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	services.BumpLedgerVersion(c.Request.Context(), userID)
	utils.SuccessResponse(c, http.StatusCreated, "Lending recorded", debt)
}

// POST /api/debts/:id/repayments
func Repay(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	debtID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid debt ID")
		return
	}

	var req models.RepayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var repayment models.Repayment
	var status models.DebtStatus
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var debt models.Debt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&debt, "id = ? AND user_id = ?", debtID, userID).Error; err != nil {
			return &ledger.NotFoundError{Resource: "debt"}
		}

		var prior []models.Repayment
		if err := tx.Where("debt_id = ?", debt.ID).Find(&prior).Error; err != nil {
			return err
		}

		rp, newStatus, err := ledger.ApplyRepayment(debt, prior, req.Amount, date, req.Mode)
		if err != nil {
			return err
		}
		if err := tx.Create(&rp).Error; err != nil {
			return err
		}
		if newStatus != debt.Status {
			if err := tx.Model(&debt).Update("status", newStatus).Error; err != nil {
				return err
			}
		}
		repayment, status = rp, newStatus
		return nil
	})
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	services.BumpLedgerVersion(c.Request.Context(), userID)
	utils.SuccessResponse(c, http.StatusCreated, "Repayment recorded", gin.H{
		"repayment": repayment,
		"status":    status,
	})
}

// POST /api/debts/:id/mark-paid
func MarkPaid(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	debtID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid debt ID")
		return
	}

	var req models.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var debt models.Debt
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&debt, "id = ? AND user_id = ?", debtID, userID).Error; err != nil {
			return &ledger.NotFoundError{Resource: "debt"}
		}

		var prior []models.Repayment
		if err := tx.Where("debt_id = ?", debt.ID).Find(&prior).Error; err != nil {
			return err
		}

		closing, newStatus, err := ledger.MarkPaid(debt, prior, date)
		if err != nil {
			return err
		}
		if err := tx.Create(&closing).Error; err != nil {
			return err
		}
		debt.Status = newStatus
		return tx.Model(&debt).Update("status", newStatus).Error
	})
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	services.BumpLedgerVersion(c.Request.Context(), userID)
	utils.SuccessResponse(c, http.StatusOK, "Marked as paid", debt)
}

// DELETE /api/debts/:id
func DeleteDebt(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	debtID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid debt ID")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var debt models.Debt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&debt, "id = ? AND user_id = ?", debtID, userID).Error; err != nil {
			return &ledger.NotFoundError{Resource: "debt"}
		}
		if err := tx.Where("debt_id = ?", debt.ID).Delete(&models.Repayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&debt).Error
	})
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	services.BumpLedgerVersion(c.Request.Context(), userID)
	utils.SuccessResponse(c, http.StatusOK, "Debt deleted", nil)
}

// GET /api/debts/dashboard
func GetDebtDashboard(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	summaries, err := computeUserSummaries(userID, time.Now())
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	stats := models.DebtDashboardStats{
		TotalLent:   decimal.Zero,
		TotalRepaid: decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, s := range summaries {
		stats.TotalLent = stats.TotalLent.Add(s.TotalLent)
		stats.TotalRepaid = stats.TotalRepaid.Add(s.TotalRepaid)
		stats.Outstanding = stats.Outstanding.Add(s.CurrentBalance)
	}

	top := ledger.TopBorrowers(summaries, 3)
	topResponses := make([]models.BorrowerSummaryResponse, 0, len(top))
	for _, s := range top {
		topResponses = append(topResponses, toSummaryResponse(s))
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.DebtDashboardResponse{
		Stats:        stats,
		TopBorrowers: topResponses,
	})
}

// computeUserSummaries folds the whole ledger of every borrower belonging
// to the user, as of asOf.
func computeUserSummaries(userID uuid.UUID, asOf time.Time) ([]ledger.Summary, error) {
	var borrowers []models.Borrower
	if err := database.DB.Where("user_id = ?", userID).Find(&borrowers).Error; err != nil {
		return nil, err
	}

	var debts []models.Debt
	if err := database.DB.Where("user_id = ?", userID).Find(&debts).Error; err != nil {
		return nil, err
	}

	debtsByBorrower := map[uuid.UUID][]models.Debt{}
	debtIDs := make([]uuid.UUID, 0, len(debts))
	for _, d := range debts {
		debtsByBorrower[d.BorrowerID] = append(debtsByBorrower[d.BorrowerID], d)
		debtIDs = append(debtIDs, d.ID)
	}

	repaymentsByDebt := map[uuid.UUID][]models.Repayment{}
	if len(debtIDs) > 0 {
		var repayments []models.Repayment
		if err := database.DB.Where("debt_id IN ?", debtIDs).Find(&repayments).Error; err != nil {
			return nil, err
		}
		for _, rp := range repayments {
			repaymentsByDebt[rp.DebtID] = append(repaymentsByDebt[rp.DebtID], rp)
		}
	}

	summaries := make([]ledger.Summary, 0, len(borrowers))
	for _, b := range borrowers {
		s, err := ledger.Summarize(b, debtsByBorrower[b.ID], repaymentsByDebt, asOf)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func toSummaryResponse(s ledger.Summary) models.BorrowerSummaryResponse {
	return models.BorrowerSummaryResponse{
		BorrowerID:     s.BorrowerID,
		Name:           s.Name,
		TotalLent:      s.TotalLent,
		TotalRepaid:    s.TotalRepaid,
		CurrentBalance: s.CurrentBalance,
		LastActivity:   s.LastActivity,
	}
}
