// Seeds the catalog (halls and weekly meal slots) and the admin account.
// Safe to run repeatedly; existing rows are left alone.
package main

import (
	"log"
	"os"

	"messbook/internal/config"
	"messbook/internal/models"
	"messbook/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

type hallSeed struct {
	name     string
	location string
	capacity int
}

var halls = []hallSeed{
	{"North Mess", "North Campus, Block A", 400},
	{"South Mess", "South Campus, Block C", 350},
	{"Annapurna Hall", "Main Quad", 250},
}

// prices are minor units (paise)
var slotPrices = map[string]int64{
	models.MealTypeBreakfast: 3000,
	models.MealTypeLunch:     6000,
	models.MealTypeDinner:    5500,
}

var menus = map[string]models.StringList{
	models.MealTypeBreakfast: {"idli", "sambar", "tea"},
	models.MealTypeLunch:     {"rice", "dal", "sabzi", "curd"},
	models.MealTypeDinner:    {"roti", "paneer curry", "salad"},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	seedAdmin()
	seedCatalog()
	if !config.IsProduction() {
		seedDemoUsers()
	}

	log.Println("✅ Seed completed")
}

func seedAdmin() {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set; skipping admin seed")
		return
	}

	var existing models.User
	if err := repositories.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        adminEmail,
		Password:     string(hashed),
		Name:         "Mess Administrator",
		RollNumber:   "ADMIN-001",
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	wallet := models.Wallet{
		UserID:   admin.ID,
		Currency: config.GetEnv("WALLET_CURRENCY", "INR"),
		Status:   "active",
	}
	if err := repositories.DB.Create(&wallet).Error; err != nil {
		log.Fatal("Failed to create admin wallet:", err)
	}
	admin.WalletID = &wallet.ID
	if err := repositories.DB.Save(&admin).Error; err != nil {
		log.Fatal("Failed to link admin wallet:", err)
	}

	log.Println("✅ Admin account created successfully!")
}

func seedDemoUsers() {
	demos := []struct {
		email string
		name  string
		roll  string
	}{
		{"asha@example.edu", "Asha Verma", "2023CS101"},
		{"ravi@example.edu", "Ravi Iyer", "2023EE042"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash demo password:", err)
	}

	for _, d := range demos {
		var existing models.User
		if err := repositories.DB.Where("email = ?", d.email).First(&existing).Error; err == nil {
			continue
		}

		user := models.User{
			Email:        d.email,
			Password:     string(hashed),
			Name:         d.name,
			RollNumber:   d.roll,
			Role:         "user",
			Status:       "active",
			TokenVersion: 1,
		}
		if err := repositories.DB.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create demo user %s: %v", d.email, err)
		}

		wallet := models.Wallet{
			UserID:   user.ID,
			Currency: config.GetEnv("WALLET_CURRENCY", "INR"),
			Status:   "active",
		}
		if err := repositories.DB.Create(&wallet).Error; err != nil {
			log.Fatalf("Failed to create wallet for %s: %v", d.email, err)
		}
		user.WalletID = &wallet.ID
		if err := repositories.DB.Save(&user).Error; err != nil {
			log.Fatalf("Failed to link wallet for %s: %v", d.email, err)
		}
		log.Printf("Seeded demo user %s", d.email)
	}
}

func seedCatalog() {
	for _, h := range halls {
		hall := models.Hall{
			Name:     h.name,
			Location: h.location,
			Capacity: h.capacity,
			Status:   models.HallStatusActive,
		}
		res := repositories.DB.Where("name = ?", h.name).FirstOrCreate(&hall)
		if res.Error != nil {
			log.Fatalf("Failed to seed hall %q: %v", h.name, res.Error)
		}

		for _, day := range models.WeekDays {
			for mealType, price := range slotPrices {
				meal := models.Meal{
					HallID:    hall.ID,
					Day:       day,
					MealType:  mealType,
					MenuItems: menus[mealType],
					Price:     price,
					Available: true,
				}
				res := repositories.DB.
					Where("hall_id = ? AND day = ? AND meal_type = ?", hall.ID, day, mealType).
					FirstOrCreate(&meal)
				if res.Error != nil {
					log.Fatalf("Failed to seed meal slot %s/%s for %q: %v", day, mealType, h.name, res.Error)
				}
			}
		}
		log.Printf("Seeded hall %q with %d weekly slots", h.name, len(models.WeekDays)*len(slotPrices))
	}
}
