package handler

import (
	"net/http"
	"strconv"

	"github.com/NivedanR/capstone-erp/internal/apierror"
	"github.com/NivedanR/capstone-erp/internal/dto"
	"github.com/NivedanR/capstone-erp/internal/model"
	"github.com/NivedanR/capstone-erp/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) GetByID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock deleted"})
}

// ListWarehouseStock serves GET /stock/warehouse/:id.
func (h *StockHandler) ListWarehouseStock(c *gin.Context) {
	h.listLocationStock(c, model.LocationWarehouse)
}

// ListBranchStock serves GET /stock/branch/:id.
func (h *StockHandler) ListBranchStock(c *gin.Context) {
	h.listLocationStock(c, model.LocationBranch)
}

func (h *StockHandler) listLocationStock(c *gin.Context, locationType string) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListByLocation(c.Request.Context(), locationType, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetWarehouseProductStock serves GET /stock/warehouse/:id/product/:productId.
func (h *StockHandler) GetWarehouseProductStock(c *gin.Context) {
	h.getLocationProductStock(c, model.LocationWarehouse)
}

// GetBranchProductStock serves GET /stock/branch/:id/product/:productId.
func (h *StockHandler) GetBranchProductStock(c *gin.Context) {
	h.getLocationProductStock(c, model.LocationBranch)
}

func (h *StockHandler) getLocationProductStock(c *gin.Context, locationType string) {
	locationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.GetByLocationAndProduct(c.Request.Context(), locationType, locationID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignToWarehouse serves PUT /stock/warehouse/:id/product/:productId.
func (h *StockHandler) AssignToWarehouse(c *gin.Context) {
	h.assign(c, model.LocationWarehouse)
}

// AssignToBranch serves PUT /stock/branch/:id/product/:productId.
func (h *StockHandler) AssignToBranch(c *gin.Context) {
	h.assign(c, model.LocationBranch)
}

func (h *StockHandler) assign(c *gin.Context, locationType string) {
	locationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	var req dto.AssignStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AssignQuantity(c.Request.Context(), locationType, locationID, productID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateStockTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTransferRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockHandler) GetRequest(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) ListRequests(c *gin.Context) {
	var filter dto.StockRequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListRequests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) ApproveRequest(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ApproveRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockHandler) RejectRequest(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RejectRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements serves the product movement ledger.
func (h *StockHandler) ListMovements(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.ListMovements(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
