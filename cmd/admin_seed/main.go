// Command admin_seed creates a sample volume-based fee structure and prints
// an admin bearer token for the fee administration API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"feeengine/internal/config"
	apperrors "feeengine/internal/errors"
	applogger "feeengine/internal/logger"
	"feeengine/internal/models"
	"feeengine/internal/repositories"
	"feeengine/internal/services/feestructure"
	"feeengine/internal/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	email := flag.String("email", config.GetEnv("ADMIN_EMAIL", "admin@example.com"), "admin email carried by the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	skipSeed := flag.Bool("token-only", false, "only print a token")
	flag.Parse()

	cfg := config.Load()

	zl, err := applogger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if !*skipSeed {
		if err := seed(cfg, zl); err != nil {
			zl.Fatal("seed failed", zap.Error(err))
		}
	}

	token, err := utils.GenerateAdminToken(cfg.JWTSecret, &models.AdminClaims{
		UserID: 1,
		Email:  *email,
		Role:   models.RoleAdmin,
	}, *ttl)
	if err != nil {
		zl.Fatal("failed to sign admin token", zap.Error(err))
	}
	fmt.Println(token)
}

func seed(cfg config.Config, zl *zap.Logger) error {
	db, err := repositories.InitDB(cfg.DB, zl)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	manager := feestructure.NewManager(repositories.NewFeeStructureRepository(db), nil, nil, nil, zl)
	byType := models.ConditionTransactionType
	refund := "refund"

	detail, err := manager.CreateStructure(context.Background(), feestructure.CreateStructureInput{
		Name:          "Standard Volume",
		Description:   "2.9% + 0.30 with monthly volume discounts",
		IsVolumeBased: true,
		MinimumFee:    feestructure.NewNumeric(0.50),
		Rules: []feestructure.RuleInput{
			{RuleType: models.RuleTypePercentage, FeeValue: feestructure.NewNumeric(2.9)},
			{RuleType: models.RuleTypeFixed, FeeValue: feestructure.NewNumeric(0.30)},
			{
				RuleType:            models.RuleTypePercentage,
				ConditionType:       &byType,
				ConditionValue:      &refund,
				FeeValue:            feestructure.NewNumeric(0),
				OverridePercentage:  feestructure.NewNumeric(0),
				OverrideFixedAmount: feestructure.NewNumeric(0),
				BreakOnMatch:        true,
			},
		},
		VolumeTiers: []feestructure.TierInput{
			{MinVolume: feestructure.NewNumeric(0), MaxVolume: feestructure.NewNumeric(9999.99), FeeValue: feestructure.NewNumeric(2.9)},
			{MinVolume: feestructure.NewNumeric(10000), MaxVolume: feestructure.NewNumeric(49999.99), PercentageFee: feestructure.NewNumeric(2.5)},
			{MinVolume: feestructure.NewNumeric(50000), PercentageFee: feestructure.NewNumeric(2.1), FixedFee: feestructure.NewNumeric(0.20)},
		},
	})
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && de.Code == "DUPLICATE_NAME" {
			zl.Info("sample fee structure already exists")
			return nil
		}
		return err
	}

	zl.Info("sample fee structure created",
		zap.Uint("id", detail.ID),
		zap.Int("rules", len(detail.Rules)),
		zap.Int("tiers", len(detail.VolumeTiers)))
	return nil
}
