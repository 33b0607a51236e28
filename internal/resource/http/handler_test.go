package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/resource"
	"github.com/pontush81/handbook-backend/internal/user"
)

const (
	testHandbookID = "7b6d2c1e-9c41-4b7a-9f40-2f4b8a0d1e23"
	adminUserID    = "admin-user"
	memberUserID   = "member-user"
)

type fakeResourceService struct {
	resource.Service
	lastFilter resource.Filter
	items      []*resource.Resource
}

func (f *fakeResourceService) List(_ context.Context, filter resource.Filter) ([]*resource.Resource, int, error) {
	f.lastFilter = filter
	return f.items, len(f.items), nil
}

type fakeHandbookService struct {
	handbook.Service
	admins map[string]bool
}

func (f *fakeHandbookService) IsAdmin(_ context.Context, _, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeHandbookService) IsMember(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

type fakeUserService struct {
	user.Service
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id, IsActive: true}, nil
}

func newListRouter(svc *fakeResourceService, asUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, &fakeHandbookService{admins: map[string]bool{adminUserID: true}}, &fakeUserService{})

	r := gin.New()
	r.GET("/handbooks/:id/resources", func(c *gin.Context) {
		c.Set("userID", asUser)
		h.List(c)
	})
	return r
}

func listResources(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAppliesCategoryFilter(t *testing.T) {
	svc := &fakeResourceService{items: []*resource.Resource{{
		ID:         "res-1",
		HandbookID: testHandbookID,
		Name:       "Tvättstuga",
		Category:   resource.CategoryLaundry,
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}}}
	r := newListRouter(svc, adminUserID)

	w := listResources(t, r, "/handbooks/"+testHandbookID+"/resources?category=laundry")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, testHandbookID, svc.lastFilter.HandbookID)
	assert.Equal(t, "laundry", svc.lastFilter.Category)

	var body struct {
		Items []ResourceResponse `json:"items"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Tvättstuga", body.Items[0].Name)
}

func TestListNonAdminSeesOnlyActiveResources(t *testing.T) {
	svc := &fakeResourceService{}
	r := newListRouter(svc, memberUserID)

	w := listResources(t, r, "/handbooks/"+testHandbookID+"/resources")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastFilter.ActiveOnly)
}

func TestListAdminSeesInactiveResources(t *testing.T) {
	svc := &fakeResourceService{}
	r := newListRouter(svc, adminUserID)

	w := listResources(t, r, "/handbooks/"+testHandbookID+"/resources")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.lastFilter.ActiveOnly)
}
