package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/revendalabs/revenda/internal/customer/domain"
	referencedomain "github.com/revendalabs/revenda/internal/reference/domain"
	whitelabeldomain "github.com/revendalabs/revenda/internal/whitelabel/domain"
	"github.com/stretchr/testify/assert"
)

type fakeCustomerService struct {
	customer customerdomain.Customer
	getErr   error
	blockErr error
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	_ = ctx
	_ = req
	return f.customer, nil
}

func (f *fakeCustomerService) Update(ctx context.Context, req customerdomain.UpdateCustomerRequest) (customerdomain.Customer, error) {
	_ = ctx
	_ = req
	return f.customer, nil
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	_ = ctx
	_ = req
	return customerdomain.ListCustomerResponse{Customers: []customerdomain.Customer{f.customer}}, nil
}

func (f *fakeCustomerService) Get(ctx context.Context, id string) (customerdomain.Customer, error) {
	_ = ctx
	_ = id
	if f.getErr != nil {
		return customerdomain.Customer{}, f.getErr
	}
	return f.customer, nil
}

func (f *fakeCustomerService) Block(ctx context.Context, req customerdomain.BlockCustomerRequest) (customerdomain.Customer, error) {
	_ = ctx
	_ = req
	if f.blockErr != nil {
		return customerdomain.Customer{}, f.blockErr
	}
	return f.customer, nil
}

func (f *fakeCustomerService) Unblock(ctx context.Context, id string) (customerdomain.Customer, error) {
	_ = ctx
	_ = id
	return f.customer, nil
}

func (f *fakeCustomerService) SetActive(ctx context.Context, id string, active bool) (customerdomain.Customer, error) {
	_ = ctx
	_ = id
	_ = active
	return f.customer, nil
}

type fakeWhitelabelService struct {
	settings whitelabeldomain.WhiteLabel
	updated  int
}

func (f *fakeWhitelabelService) Get(ctx context.Context) (whitelabeldomain.WhiteLabel, error) {
	_ = ctx
	return f.settings, nil
}

func (f *fakeWhitelabelService) Update(ctx context.Context, req whitelabeldomain.UpdateRequest) (whitelabeldomain.WhiteLabel, error) {
	_ = ctx
	f.updated++
	f.settings.Name = req.Name
	return f.settings, nil
}

type fakeReferenceRepo struct {
	segments []referencedomain.Segment
}

func (f *fakeReferenceRepo) ListSegments(ctx context.Context) ([]referencedomain.Segment, error) {
	_ = ctx
	return f.segments, nil
}

func newTestServer(customers customerdomain.Service, branding whitelabeldomain.Service) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		engine:        NewEngine(),
		customerSvc:   customers,
		whitelabelSvc: branding,
		refRepo: &fakeReferenceRepo{segments: []referencedomain.Segment{
			{ID: 1, Description: "Mercado"},
			{ID: 2, Description: "Padaria"},
		}},
	}
	s.registerCustomerRoutes()
	s.registerWhitelabelRoutes()
	s.registerReferenceRoutes()
	return s
}

func do(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestGetWhiteLabelReturnsData(t *testing.T) {
	branding := &fakeWhitelabelService{settings: whitelabeldomain.WhiteLabel{Name: "Acme Sistemas"}}
	s := newTestServer(&fakeCustomerService{}, branding)

	w := do(s, http.MethodGet, "/revendas/whitelabel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data whitelabeldomain.WhiteLabel `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme Sistemas", resp.Data.Name)
}

func TestUpdateWhiteLabelRejectsMalformedBody(t *testing.T) {
	branding := &fakeWhitelabelService{}
	s := newTestServer(&fakeCustomerService{}, branding)

	w := do(s, http.MethodPut, "/revendas/whitelabel", []byte("{"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, branding.updated)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
}

func TestGetCustomerNotFoundMapsTo404(t *testing.T) {
	customers := &fakeCustomerService{getErr: customerdomain.ErrCustomerNotFound}
	s := newTestServer(customers, &fakeWhitelabelService{})

	w := do(s, http.MethodGet, "/revendas/clientes/123", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestBlockCustomerConflictMapsTo409(t *testing.T) {
	customers := &fakeCustomerService{blockErr: customerdomain.ErrCustomerBlocked}
	s := newTestServer(customers, &fakeWhitelabelService{})

	body, _ := json.Marshal(map[string]string{"type": "manual", "reason": "inadimplencia"})
	w := do(s, http.MethodPost, "/revendas/clientes/123/bloqueio", body)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp errorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error.Type)
	assert.Equal(t, "customer_already_blocked", resp.Error.Message)
}

func TestListSegmentsReturnsCatalog(t *testing.T) {
	s := newTestServer(&fakeCustomerService{}, &fakeWhitelabelService{})

	w := do(s, http.MethodGet, "/revendas/consultas/segmentos", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []referencedomain.Segment `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "Mercado", resp.Data[0].Description)
}

func TestListCancelReasonsServesFullCatalog(t *testing.T) {
	s := newTestServer(&fakeCustomerService{}, &fakeWhitelabelService{})

	w := do(s, http.MethodGet, "/revendas/consultas/motivos-desativacao", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []referencedomain.CancelReasonOption `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 5)
	assert.Equal(t, 1, resp.Data[0].ID)
	assert.Equal(t, "price", resp.Data[0].Code)
	assert.Equal(t, "Preço", resp.Data[0].Description)
	assert.Equal(t, "other", resp.Data[4].Code)
}

func TestSetCustomerActiveRequiresExplicitFlag(t *testing.T) {
	s := newTestServer(&fakeCustomerService{}, &fakeWhitelabelService{})

	w := do(s, http.MethodPost, "/revendas/clientes/123/ativacao", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
