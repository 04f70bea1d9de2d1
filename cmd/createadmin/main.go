// Command createadmin creates the console account if it does not exist yet.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/utils"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	db := config.InitDatabase(cfg, models.All()...)
	created, err := createAdmin(db, *username, *password)
	if err != nil {
		utils.Logger.Fatal("create admin failed", zap.Error(err))
	}
	if !created {
		utils.Sugar.Infof("account %q already exists", *username)
		return
	}
	utils.Sugar.Infof("account %q created", *username)
}

// createAdmin inserts the account unless the username is taken.
func createAdmin(db *gorm.DB, username, password string) (bool, error) {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := db.Create(&models.User{Username: username, PasswordHash: hash}).Error; err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
