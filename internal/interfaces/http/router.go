package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Allocation       *inventory.AllocationUseCase
	Ledger           *inventory.LedgerUseCase
	JWTSecret        string
	// Opcionales: feed WebSocket y métricas.
	StockFeed fiber.Handler
	Metrics   fiber.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token). Las lecturas admiten cualquier rol.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writer, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writer, productHandler.Update)

	// Inventory movements
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Ledger)
	invGroup.Post("/movements", writer, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Put("/movements/:id/justificatif", writer, inventoryHandler.AttachJustificatif)
	invGroup.Get("/products/:id/history", inventoryHandler.ProductHistory)
	invGroup.Get("/products/:id/balance-check", inventoryHandler.BalanceCheck)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Project materials
	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.Allocation, deps.Ledger)
	projects.Delete("/materials/:movementId", writer, projectHandler.Deallocate)
	projects.Post("/:id/materials", writer, projectHandler.Allocate)
	projects.Get("/:id/materials", projectHandler.ListMaterials)

	if deps.StockFeed != nil {
		app.Use("/ws", wsUpgradeOnly)
		app.Get("/ws/stock", wsTokenFromQuery, AuthMiddleware(deps.JWTSecret), deps.StockFeed)
	}
}

// wsUpgradeOnly rechaza con 426 las peticiones que no son upgrade WebSocket.
func wsUpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// wsTokenFromQuery los navegadores no pueden enviar cabeceras en el upgrade: se acepta ?access_token=.
func wsTokenFromQuery(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if t := c.Query("access_token"); t != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+t)
		}
	}
	return c.Next()
}
