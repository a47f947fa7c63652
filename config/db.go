package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"dormhub-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "dormhub_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase gives a fresh install a usable owner account, one demo
// dorm and a floor of rooms. Everything is guarded by count checks, so
// reruns are no-ops.
func SeedDatabase() {
	var adminCount int64
	DB.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Admin User",
				Username: "admin@dormhub.local",
				Password: string(hash),
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var dormCount int64
	DB.Model(&models.Dorm{}).Count(&dormCount)
	if dormCount > 0 {
		log.Println("Dorms already seeded")
		return
	}

	var owner models.Admin
	if err := DB.Order("id").First(&owner).Error; err != nil {
		log.Printf("warning: no admin available to own the demo dorm: %v", err)
		return
	}

	dorm := models.Dorm{
		Name:         "Campus North Residence",
		OwnerAdminID: owner.ID,
		Address:      "12 University Avenue",
		Zone:         "North",
	}
	if err := DB.Create(&dorm).Error; err != nil {
		log.Printf("warning: failed to seed demo dorm: %v", err)
		return
	}

	rooms := []models.Room{
		{DormID: dorm.ID, RoomNumber: "101", RoomType: models.RoomTypeSingle, Capacity: 1, PricePerMonth: 320, Floor: 1},
		{DormID: dorm.ID, RoomNumber: "102", RoomType: models.RoomTypeDouble, Capacity: 2, PricePerMonth: 450, Floor: 1},
		{DormID: dorm.ID, RoomNumber: "201", RoomType: models.RoomTypeDouble, Capacity: 2, PricePerMonth: 460, Floor: 2},
		{DormID: dorm.ID, RoomNumber: "202", RoomType: models.RoomTypeTriple, Capacity: 3, PricePerMonth: 540, Floor: 2},
	}
	for i := range rooms {
		rooms[i].Status = models.RoomStatusAvailable
	}
	if err := DB.Create(&rooms).Error; err != nil {
		log.Printf("warning: failed to seed demo rooms: %v", err)
		return
	}
	log.Println("Demo dorm and rooms seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Admin{},
		&models.Dorm{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
