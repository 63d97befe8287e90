package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/db"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/pricelist"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"github.com/vterekhov/procurement-backend/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPriceList = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": "6.5"
      "Разрешение (пикс)": "2688x1242"
      "Встроенная память (Гб)": "512"
      "Цвет": "золотистый"
  - id: 4216313
    category: 224
    model: apple/iphone/xr
    name: Смартфон Apple iPhone XR 256GB (красный)
    price: 65000
    price_rrc: 69990
    quantity: 9
    parameters:
      "Диагональ (дюйм)": "6.1"
      "Встроенная память (Гб)": "256"
      "Цвет": "красный"
  - id: 5100998
    category: 15
    model: apple/case/iphone-xr
    name: Чехол Apple для iPhone XR (прозрачный)
    price: 2700
    price_rrc: 3490
    quantity: 30
`

// Seeds a demo partner account and runs its price list through the
// regular import pipeline.
func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(conn)

	partner, err := users.FindByEmail(ctx, "partner@example.com")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte("partner-demo-password"), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal("hash password", zap.Error(err))
		}
		partner = &model.User{
			Email:        "partner@example.com",
			PasswordHash: string(hash),
			FirstName:    "Демо",
			LastName:     "Партнёр",
			Company:      "Связной",
			Role:         model.RolePartner,
			IsActive:     true,
		}
		if err := users.Create(ctx, partner); err != nil {
			logger.Fatal("create partner user", zap.Error(err))
		}
		logger.Info("partner user created", zap.Uint64("id", partner.ID))
	} else if err != nil {
		logger.Fatal("look up partner user", zap.Error(err))
	}

	doc, err := pricelist.Parse(strings.NewReader(demoPriceList), pricelist.FormatYAML)
	if err != nil {
		logger.Fatal("parse demo price list", zap.Error(err))
	}

	importer := service.NewImportService(
		repository.NewSupplierRepository(conn),
		repository.NewCatalogRepository(conn),
		nil,
		logger,
	)
	result, err := importer.Import(ctx, partner, doc)
	if err != nil {
		logger.Fatal("import demo price list", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.Uint64("supplier_id", result.SupplierID),
		zap.Int("categories", result.Categories),
		zap.Int("offers", result.Offers))
}
