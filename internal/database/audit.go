package database

import "github.com/ahmedEssyad/eter-reports-separated/internal/models"

// CreateAuditLog records an admin action. Failures are swallowed: the
// audit trail must never break the operation it describes.
func CreateAuditLog(userID uint, entity, entityID, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}
