// app/bootstrap.go
package app

import (
	"context"
	"errors"
	"time"

	"robolab/db"
	"robolab/models"

	"github.com/google/uuid"
)

// starter inventory for a fresh install
var seedComponents = []models.Component{
	{Name: "Arduino Uno R3", Category: "Microcontroller", Description: "Arduino Uno R3 development board", TotalQuantity: 25},
	{Name: "L298N Motor Driver", Category: "Motor Driver", Description: "Dual H-Bridge motor driver", TotalQuantity: 15},
	{Name: "Ultrasonic Sensor HC-SR04", Category: "Sensor", Description: "Ultrasonic distance sensor", TotalQuantity: 20},
	{Name: "Servo Motor SG90", Category: "Actuator", Description: "9g micro servo motor", TotalQuantity: 30},
	{Name: "ESP32 Development Board", Category: "Microcontroller", Description: "WiFi and Bluetooth enabled microcontroller", TotalQuantity: 12},
}

// Bootstrap makes sure the admin account exists and seeds the starter
// inventory on an empty database.
func Bootstrap(ctx context.Context, a *App, repo *db.Repo) error {
	if _, err := repo.FindUserByEmail(ctx, a.Config.AdminEmail); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}
		admin := &models.User{
			ID:           uuid.NewString(),
			Name:         a.Config.AdminName,
			Email:        a.Config.AdminEmail,
			Role:         models.RoleAdmin,
			RegisteredAt: time.Now().UTC(),
		}
		if err := repo.CreateUser(ctx, admin); err != nil {
			return err
		}
		a.Log.Infow("created admin account", "email", admin.Email)
	}

	existing, err := repo.ListComponents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range seedComponents {
		c := seedComponents[i]
		c.ID = uuid.NewString()
		if err := repo.CreateComponent(ctx, &c); err != nil {
			return err
		}
	}
	a.Log.Infow("seeded starter inventory", "components", len(seedComponents))
	return nil
}
