package repository

import (
	"fmt"

	"spark-chat/internal/domain/conversation"
	"spark-chat/internal/domain/message"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&conversation.Conversation{},
		&message.Message{},
	}
}

// InitSchema creates or updates the tables and indexes.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// DropSchema removes every table. Used by the reset command.
func DropSchema(db *gorm.DB) error {
	models := Models()
	// drop in reverse so dependants go first
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}

// TableStatus reports which tables exist.
func TableStatus(db *gorm.DB) map[string]bool {
	status := make(map[string]bool)
	status["conversations"] = db.Migrator().HasTable(&conversation.Conversation{})
	status["messages"] = db.Migrator().HasTable(&message.Message{})
	return status
}
