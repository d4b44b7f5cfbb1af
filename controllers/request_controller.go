package controllers

import (
	"net/http"
	"time"

	"robolab/app"
	"robolab/db"
	"robolab/models"

	"github.com/gin-gonic/gin"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// POST /api/requests
func (rc *RequestController) Submit(c *gin.Context) {
	var in struct {
		ComponentID string `json:"componentId" binding:"required"`
		Quantity    int    `json:"quantity" binding:"required"`
		DueDate     string `json:"dueDate" binding:"required"`
		RollNo      string `json:"rollNo"`
		Mobile      string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "dueDate must be YYYY-MM-DD or RFC 3339"})
		return
	}

	req, err := rc.Repo.SubmitRequest(c.Request.Context(), db.SubmitRequestInput{
		StudentID:   currentUserID(c),
		RollNo:      in.RollNo,
		Mobile:      in.Mobile,
		ComponentID: in.ComponentID,
		Quantity:    in.Quantity,
		DueDate:     due,
	}, time.Now().UTC())
	if err != nil {
		httpError(c, err)
		return
	}
	rc.Log.Infow("request submitted", "request", req.ID, "component", req.ComponentName, "qty", req.Quantity)
	c.JSON(http.StatusCreated, req)
}

// GET /api/requests/mine
func (rc *RequestController) ListMine(c *gin.Context) {
	reqs, err := rc.Repo.ListRequests(c.Request.Context(), db.RequestFilter{
		StudentID: currentUserID(c),
		Status:    models.RequestStatus(c.Query("status")),
	})
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// GET /api/requests  (admin)  ?status=&studentId=&componentId=
func (rc *RequestController) ListAll(c *gin.Context) {
	reqs, err := rc.Repo.ListRequests(c.Request.Context(), db.RequestFilter{
		StudentID:   c.Query("studentId"),
		ComponentID: c.Query("componentId"),
		Status:      models.RequestStatus(c.Query("status")),
	})
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// POST /api/requests/:id/approve  (admin)
func (rc *RequestController) Approve(c *gin.Context) {
	req, err := rc.Repo.ApproveRequest(c.Request.Context(), c.Param("id"), currentUserName(c), time.Now().UTC())
	if err != nil {
		httpError(c, err)
		return
	}
	rc.Log.Infow("request approved", "request", req.ID, "by", req.ApprovedBy)
	c.JSON(http.StatusOK, req)
}

// POST /api/requests/:id/reject  (admin)
func (rc *RequestController) Reject(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in) // empty body handled by the lifecycle's reason check
	req, err := rc.Repo.RejectRequest(c.Request.Context(), c.Param("id"), in.Reason)
	if err != nil {
		httpError(c, err)
		return
	}
	rc.Log.Infow("request rejected", "request", req.ID)
	c.JSON(http.StatusOK, req)
}

// POST /api/requests/:id/return  (admin)
func (rc *RequestController) Return(c *gin.Context) {
	req, err := rc.Repo.ReturnRequest(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		httpError(c, err)
		return
	}
	rc.Log.Infow("request returned", "request", req.ID)
	c.JSON(http.StatusOK, req)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
