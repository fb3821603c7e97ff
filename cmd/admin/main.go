// Package main provides admin account maintenance for CampusHire.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"campushire/internal/config"
	"campushire/internal/database"
	"campushire/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "list":
		err = listAdmins(db)
	case "set-role":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		err = setRole(db, os.Args[2], os.Args[3])
	case "deactivate":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		err = setActive(db, os.Args[2], false)
	case "activate":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		err = setActive(db, os.Args[2], true)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin list                       - List admin accounts")
	fmt.Println("  go run ./cmd/admin set-role <email> <role>    - Set role (super_admin or moderator)")
	fmt.Println("  go run ./cmd/admin deactivate <email>         - Block an admin from logging in")
	fmt.Println("  go run ./cmd/admin activate <email>           - Re-enable an admin")
}

func findAdmin(db *gorm.DB, email string) (*models.Admin, error) {
	var admin models.Admin
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("admin %s not found", email)
	}
	return &admin, err
}

func listAdmins(db *gorm.DB) error {
	var admins []models.Admin
	if err := db.Order("id").Find(&admins).Error; err != nil {
		return err
	}
	if len(admins) == 0 {
		fmt.Println("No admin accounts. The first successful admin login creates one.")
		return nil
	}
	fmt.Printf("%-5s %-35s %-12s %s\n", "ID", "EMAIL", "ROLE", "ACTIVE")
	for _, a := range admins {
		fmt.Printf("%-5d %-35s %-12s %t\n", a.ID, a.Email, a.Role, a.IsActive)
	}
	return nil
}

func setRole(db *gorm.DB, email, role string) error {
	if role != models.AdminRoleSuperAdmin && role != models.AdminRoleModerator {
		return fmt.Errorf("unknown role %q", role)
	}
	admin, err := findAdmin(db, email)
	if err != nil {
		return err
	}
	if err := db.Model(admin).Update("role", role).Error; err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", admin.Email, role)
	return nil
}

func setActive(db *gorm.DB, email string, active bool) error {
	admin, err := findAdmin(db, email)
	if err != nil {
		return err
	}
	if err := db.Model(admin).Update("is_active", active).Error; err != nil {
		return err
	}
	fmt.Printf("%s active=%t\n", admin.Email, active)
	return nil
}
