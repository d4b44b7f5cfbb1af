package controllers

import (
	"net/http"

	"robolab/app"
	"robolab/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComponentController struct{ *Srv }

func NewComponentController(s *Srv) *ComponentController { return &ComponentController{Srv: s} }

// POST /api/components  (admin)
func (cc *ComponentController) Create(c *gin.Context) {
	var in struct {
		Name          string `json:"name" binding:"required"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		TotalQuantity int    `json:"totalQuantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	comp := &models.Component{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		TotalQuantity: in.TotalQuantity,
	}
	if err := cc.Repo.CreateComponent(c.Request.Context(), comp); err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comp)
}

// GET /api/components
func (cc *ComponentController) List(c *gin.Context) {
	items, err := cc.Repo.ListComponents(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"components": items})
}

// GET /api/components/:id
func (cc *ComponentController) Get(c *gin.Context) {
	comp, err := cc.Repo.FindComponentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

// PUT /api/components/:id  (admin)
//
// Changing totalQuantity shifts availability by the delta via the ledger, so
// units currently checked out are undisturbed and the shelf can never be
// shrunk below them.
func (cc *ComponentController) Update(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		Name          string `json:"name" binding:"required"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		TotalQuantity *int   `json:"totalQuantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	comp, err := cc.Repo.UpdateComponentInfo(c.Request.Context(), id, in.Name, in.Category, in.Description)
	if err != nil {
		httpError(c, err)
		return
	}
	if in.TotalQuantity != nil && *in.TotalQuantity != comp.TotalQuantity {
		comp, err = cc.Repo.ResizeComponent(c.Request.Context(), id, *in.TotalQuantity)
		if err != nil {
			httpError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, comp)
}
