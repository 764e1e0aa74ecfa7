package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack-backend/database"
	"fintrack-backend/models"
	"fintrack-backend/utils"
)

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	FCMToken string `json:"fcm_token"`
}

// GET /api/users/me
func GetProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
func UpdateProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.FCMToken != "" {
		updates["fcm_token"] = req.FCMToken
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.InternalError(c, "Failed to update profile")
			return
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}
