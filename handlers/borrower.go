package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack-backend/config"
	"fintrack-backend/database"
	"fintrack-backend/ledger"
	"fintrack-backend/models"
	"fintrack-backend/services"
	"fintrack-backend/utils"
)

// GET /api/borrowers
func GetBorrowers(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	ctx := c.Request.Context()

	cached, version, ok := services.CachedSummaries(ctx, userID)
	if ok {
		utils.SuccessResponse(c, http.StatusOK, "", cached)
		return
	}

	summaries, err := computeUserSummaries(userID, time.Now())
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})

	responses := make([]models.BorrowerSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, toSummaryResponse(s))
	}

	services.StoreSummaries(ctx, userID, version, responses)
	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/borrowers/:id/ledger
func GetLedger(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	borrowerID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid borrower ID")
		return
	}

	asOf, err := utils.AsOfDate(c)
	if err != nil {
		utils.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	var borrower models.Borrower
	if err := database.DB.First(&borrower, "id = ? AND user_id = ?", borrowerID, userID).Error; err != nil {
		utils.NotFound(c, "Borrower not found")
		return
	}

	var debts []models.Debt
	if err := database.DB.Where("borrower_id = ?", borrowerID).
		Order("date DESC, created_at DESC").Find(&debts).Error; err != nil {
		utils.InternalError(c, "Failed to load debts")
		return
	}

	repaymentsByDebt := map[uuid.UUID][]models.Repayment{}
	reasonByDebt := map[uuid.UUID]string{}
	debtIDs := make([]uuid.UUID, 0, len(debts))
	for _, d := range debts {
		debtIDs = append(debtIDs, d.ID)
		reasonByDebt[d.ID] = d.Reason
	}

	var repayments []models.Repayment
	if len(debtIDs) > 0 {
		if err := database.DB.Where("debt_id IN ?", debtIDs).
			Order("date DESC, created_at DESC").Find(&repayments).Error; err != nil {
			utils.InternalError(c, "Failed to load repayments")
			return
		}
		for _, rp := range repayments {
			repaymentsByDebt[rp.DebtID] = append(repaymentsByDebt[rp.DebtID], rp)
		}
	}

	rows := make([]models.DebtLedgerRow, 0, len(debts))
	totalInterest := decimal.Zero
	var overdue []models.Debt
	for _, d := range debts {
		// Debts dated in the future have accrued nothing yet.
		effAsOf := asOf
		if d.Date.After(asOf) {
			effAsOf = d.Date
		}
		state, err := ledger.Replay(d, repaymentsByDebt[d.ID], effAsOf)
		if err != nil {
			utils.LedgerError(c, err)
			return
		}
		isOverdue := ledger.IsOverdue(d, asOf)
		if isOverdue {
			overdue = append(overdue, d)
		}
		totalInterest = totalInterest.Add(state.UnpaidInterest)
		rows = append(rows, models.DebtLedgerRow{
			ID:              d.ID,
			Principal:       d.Principal,
			Date:            d.Date,
			DueDate:         d.DueDate,
			InterestRate:    d.InterestRate,
			InterestPeriod:  d.InterestPeriod,
			Reason:          d.Reason,
			Status:          d.Status,
			AccruedInterest: state.UnpaidInterest,
			TotalDue:        state.Outstanding(),
			IsOverdue:       isOverdue,
		})
	}

	summary, err := ledger.Summarize(borrower, debts, repaymentsByDebt, asOf)
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	risks := ledger.RiskFlags(debts, summary.CurrentBalance, config.AppConfig.HighBalanceThreshold, asOf)

	repaymentResponses := make([]models.RepaymentResponse, 0, len(repayments))
	for _, rp := range repayments {
		repaymentResponses = append(repaymentResponses, models.RepaymentResponse{
			ID:         rp.ID,
			DebtID:     rp.DebtID,
			DebtReason: reasonByDebt[rp.DebtID],
			Amount:     rp.Amount,
			Date:       rp.Date,
			Mode:       rp.Mode,
		})
	}

	if len(overdue) > 0 {
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			go services.GetNotificationService().NotifyOverdueDebts(user, borrower, overdue)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.LedgerResponse{
		Borrower:      toSummaryResponse(summary),
		Debts:         rows,
		Repayments:    repaymentResponses,
		TotalInterest: totalInterest,
		Risks:         risks,
	})
}

// DELETE /api/borrowers/:id
func DeleteBorrower(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	borrowerID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid borrower ID")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var borrower models.Borrower
		if err := tx.First(&borrower, "id = ? AND user_id = ?", borrowerID, userID).Error; err != nil {
			return &ledger.NotFoundError{Resource: "borrower"}
		}

		var debtIDs []uuid.UUID
		if err := tx.Model(&models.Debt{}).Where("borrower_id = ?", borrowerID).
			Pluck("id", &debtIDs).Error; err != nil {
			return err
		}
		if len(debtIDs) > 0 {
			if err := tx.Where("debt_id IN ?", debtIDs).Delete(&models.Repayment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("borrower_id = ?", borrowerID).Delete(&models.Debt{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&borrower).Error
	})
	if err != nil {
		utils.LedgerError(c, err)
		return
	}

	services.BumpLedgerVersion(c.Request.Context(), userID)
	utils.SuccessResponse(c, http.StatusOK, "Borrower deleted", nil)
}
