package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/reparo-api/internal/application/auth"
	"github.com/jhoicas/reparo-api/internal/application/customer"
	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/inventory"
	"github.com/jhoicas/reparo-api/internal/application/serviceorder"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparo-api/internal/infrastructure/storage"
)

type seedOptions struct {
	organization string
	email        string
	password     string
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga datos de ejemplo",
	}

	var opts seedOptions
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Crea una organización de demostración con técnico, clientes, repuestos y órdenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seedDemo(cmd.Context(), opts)
		},
	}
	demo.Flags().StringVar(&opts.organization, "organization", "Assistência Demo", "nombre de la organización")
	demo.Flags().StringVar(&opts.email, "email", "admin@demo.com.br", "email del administrador")
	demo.Flags().StringVar(&opts.password, "password", "demo12345", "contraseña del administrador")

	cmd.AddCommand(demo)
	return cmd
}

type demoProduct struct {
	sku, name, category string
	price, cost, qty    int64
	min                 int64
}

var demoProducts = []demoProduct{
	{"TELA-IP11", "Tela iPhone 11", "telas", 450, 220, 5, 2},
	{"BAT-SGA32", "Bateria Galaxy A32", "baterias", 180, 70, 8, 3},
	{"CON-USBC", "Conector de carga USB-C", "conectores", 60, 15, 2, 4},
}

func seedDemo(ctx context.Context, opts seedOptions) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool)
	users := postgres.NewUserRepository(pool)
	orgs := postgres.NewOrganizationRepository(pool)
	customers := postgres.NewCustomerRepository(pool)
	devices := postgres.NewDeviceRepository(pool)

	avatars, err := storage.NewDiskAvatarStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return err
	}
	authUC := auth.NewUseCase(users, orgs, tx, avatars, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	customerUC := customer.NewUseCase(customers, devices, tx, nil, log)
	stockUC := inventory.NewUseCase(postgres.NewProductRepository(pool), postgres.NewInventoryMovementRepository(pool), tx, nil, nil, log)
	serviceUC := serviceorder.NewUseCase(postgres.NewServiceOrderRepository(pool), customers, devices, users, tx, stockUC, nil, nil, log)

	session, err := authUC.Register(ctx, dto.RegisterRequest{
		OrganizationName: opts.organization,
		Name:             "Administrador",
		Email:            opts.email,
		Password:         opts.password,
	})
	if err != nil {
		return fmt.Errorf("registrar organización: %w", err)
	}
	orgID, adminID := session.Organization.ID, session.User.ID

	tech, err := authUC.CreateUser(ctx, orgID, dto.CreateUserRequest{
		Email:    "tecnico@" + session.Organization.Slug + ".demo",
		Password: opts.password,
		Name:     "Técnico Demo",
		Role:     entity.RoleTechnician,
	})
	if err != nil {
		return fmt.Errorf("crear técnico: %w", err)
	}

	for _, p := range demoProducts {
		prod, err := stockUC.CreateProduct(ctx, orgID, dto.ProductRequest{
			SKU:      p.sku,
			Name:     p.name,
			Category: p.category,
			Price:    decimal.NewFromInt(p.price),
			MinStock: decimal.NewFromInt(p.min),
		})
		if err != nil {
			return fmt.Errorf("crear producto %s: %w", p.sku, err)
		}
		cost := decimal.NewFromInt(p.cost)
		if _, err := stockUC.RegisterMovement(ctx, orgID, adminID, dto.RegisterMovementRequest{
			ProductID: prod.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  decimal.NewFromInt(p.qty),
			UnitCost:  &cost,
			Reference: "estoque inicial",
		}); err != nil {
			return fmt.Errorf("entrada de %s: %w", p.sku, err)
		}
	}

	ana, err := customerUC.Create(ctx, orgID, dto.CustomerRequest{
		Name:     "Ana Souza",
		Document: "529.982.247-25",
		Phone:    "(11) 98765-4321",
		WhatsApp: "11987654321",
		Email:    "ana.souza@example.com",
	})
	if err != nil {
		return fmt.Errorf("crear cliente: %w", err)
	}
	phone, err := customerUC.CreateDevice(ctx, orgID, ana.ID, dto.DeviceRequest{
		Brand: "Apple", Model: "iPhone 11", Color: "preto", Condition: "tela trincada",
	})
	if err != nil {
		return fmt.Errorf("crear aparato: %w", err)
	}
	svc, err := serviceUC.Create(ctx, orgID, adminID, dto.CreateServiceRequest{
		CustomerID:   ana.ID,
		DeviceID:     phone.ID,
		TechnicianID: tech.ID,
		Problem:      "Troca de tela",
		Price:        decimal.NewFromInt(150),
	})
	if err != nil {
		return fmt.Errorf("crear orden: %w", err)
	}

	log.Info().
		Str("organization", orgID).
		Str("admin", opts.email).
		Str("technician", tech.Email).
		Str("service", svc.Code).
		Int("products", len(demoProducts)).
		Msg("datos de demostración creados")
	return nil
}
