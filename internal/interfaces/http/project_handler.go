package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ProjectHandler asignación de material a proyectos (protegido).
type ProjectHandler struct {
	allocation *inventory.AllocationUseCase
	ledger     *inventory.LedgerUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(allocation *inventory.AllocationUseCase, ledger *inventory.LedgerUseCase) *ProjectHandler {
	return &ProjectHandler{allocation: allocation, ledger: ledger}
}

// Allocate godoc
// @Summary      Asignar material a un proyecto
// @Description  Registra una SORTIE etiquetada con el proyecto.
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del proyecto"
// @Param        body  body  dto.AllocateMaterialRequest  true  "product_id y quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/materials [post]
func (h *ProjectHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateMaterialRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.allocation.AllocateFromRequest(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMaterials godoc
// @Summary      Material asignado a un proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del proyecto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/materials [get]
func (h *ProjectHandler) ListMaterials(c *fiber.Ctx) error {
	limit, offset := pageFromQuery(c)
	out, err := h.ledger.ListProjectAllocations(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deallocate godoc
// @Summary      Revertir una asignación
// @Description  Devuelve la cantidad completa al producto y elimina el movimiento.
// @Tags         projects
// @Security     Bearer
// @Param        movementId  path  string  true  "ID del movimiento de asignación"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/materials/{movementId} [delete]
func (h *ProjectHandler) Deallocate(c *fiber.Ctx) error {
	if err := h.allocation.Deallocate(c.Context(), GetUserID(c), c.Params("movementId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
