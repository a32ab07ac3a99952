package migrations

import (
	"fmt"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"

	"gorm.io/gorm"
)

// NotifyChannel is the postgres channel the orders trigger publishes change events on.
const NotifyChannel = "order_changes"

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// RunMigrations migrates the schema and, on postgres, installs the trigger that
// feeds order changes to LISTEN subscribers.
func RunMigrations(db *gorm.DB, log *logger.Logger) error {
	log.Info("migrations_started", "Running database migrations", nil)

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := installOrderTrigger(db); err != nil {
			return fmt.Errorf("failed to install order trigger: %w", err)
		}
	}

	log.Info("migrations_completed", "Database migrations completed", nil)
	return nil
}

// orderHeaderJSON builds the notification view of an order row. pg_notify
// payloads are capped at 8000 bytes, so free text such as special_request stays
// out; listeners refetch the order when they need it.
func orderHeaderJSON(row string) string {
	return fmt.Sprintf("json_build_object('id', %[1]s.id, 'restaurant_id', %[1]s.restaurant_id, "+
		"'order_type', %[1]s.order_type, 'status', %[1]s.status)", row)
}

func orderTriggerStatements() []string {
	return []string{
		`CREATE OR REPLACE FUNCTION notify_order_change() RETURNS trigger AS $$
DECLARE
	payload json;
BEGIN
	IF TG_OP = 'DELETE' THEN
		payload := json_build_object('type', TG_OP, 'table', TG_TABLE_NAME,
			'restaurant_id', OLD.restaurant_id, 'old', ` + orderHeaderJSON("OLD") + `);
	ELSIF TG_OP = 'UPDATE' THEN
		payload := json_build_object('type', TG_OP, 'table', TG_TABLE_NAME,
			'restaurant_id', NEW.restaurant_id, 'new', ` + orderHeaderJSON("NEW") + `,
			'old', ` + orderHeaderJSON("OLD") + `);
	ELSE
		payload := json_build_object('type', TG_OP, 'table', TG_TABLE_NAME,
			'restaurant_id', NEW.restaurant_id, 'new', ` + orderHeaderJSON("NEW") + `);
	END IF;
	PERFORM pg_notify('` + NotifyChannel + `', payload::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS orders_notify ON orders`,
		`CREATE TRIGGER orders_notify AFTER INSERT OR UPDATE OR DELETE ON orders
	FOR EACH ROW EXECUTE FUNCTION notify_order_change()`,
	}
}

func installOrderTrigger(db *gorm.DB) error {
	for _, stmt := range orderTriggerStatements() {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
