package main

import (
	"fmt"
	"log"

	"signquote/internal/config"
	"signquote/internal/handler"
	"signquote/internal/repository/postgres"
	"signquote/internal/router"
	"signquote/internal/ruleset"
	"signquote/internal/service"
	"signquote/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rules, err := ruleset.LoadDir(cfg.Rules.Dir)
	if err != nil {
		return fmt.Errorf("failed to load rule packs: %w", err)
	}
	log.Printf("Loaded %d product type rule packs from %s", len(rules.ProductTypeIDs()), cfg.Rules.Dir)

	engine := validator.NewEngine(rules)

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	customerRepo := postgres.NewCustomerRepo(db)
	estimateRepo := postgres.NewEstimateRepo(db)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	customerSvc := service.NewCustomerService(customerRepo)
	estimateSvc := service.NewEstimateService(estimateRepo, customerRepo, engine)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	customerH := handler.NewCustomerHandler(customerSvc)
	estimateH := handler.NewEstimateHandler(estimateSvc)
	rulesetH := handler.NewRulesetHandler(rules)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, authH, customerH, estimateH, rulesetH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
